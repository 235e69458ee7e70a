package rest

import (
	"context"
	"net/url"

	"github.com/go-faster/errors"

	"github.com/wicaksana/paket-portal/internal/domain/user"
	"github.com/wicaksana/paket-portal/internal/restdata"
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository against the backend users
// collection.
type UserRepository struct {
	client *restdata.Client
}

// NewUserRepository returns a UserRepository using client.
func NewUserRepository(client *restdata.Client) *UserRepository {
	return &UserRepository{client: client}
}

type userRecord struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// Authenticate looks up the account matching the email/password pair. The
// backend compares credentials as stored, so the filter read returns either
// one account or nothing.
func (r *UserRepository) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	filters := url.Values{
		"email":    []string{email},
		"password": []string{password},
	}
	var records []userRecord
	if err := r.client.Read(ctx, "users", filters, &records); err != nil {
		return nil, errors.Wrap(err, "authenticate user")
	}
	if len(records) == 0 {
		return nil, user.ErrInvalidCredentials
	}
	rec := records[0]
	return &user.User{
		ID:    rec.ID,
		Name:  rec.Name,
		Email: rec.Email,
		Phone: rec.Phone,
		Role:  user.Role(rec.Role),
	}, nil
}
