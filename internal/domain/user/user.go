package user

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrInvalidCredentials is returned when no user matches the supplied
// email/password pair.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Role distinguishes portal administrators from customers.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "user"
)

// User is an authenticated portal account.
type User struct {
	ID    int64
	Name  string
	Email string
	Phone string
	Role  Role
}

// Authenticated reports whether u refers to a real account.
func (u User) Authenticated() bool {
	return u.ID != 0
}

// Repository authenticates accounts against the backend users collection.
// Credentials are compared in plaintext by the backend, matching the
// original portal's login behaviour.
type Repository interface {
	Authenticate(ctx context.Context, email, password string) (*User, error)
}
