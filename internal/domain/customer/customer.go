package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no customer record matches a lookup.
var ErrNotFound = errors.New("customer not found")

// Status of a customer profile.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Customer is the backend profile record for a purchasing user. It is
// distinct from the portal account: created lazily on first checkout and
// never mutated by this subsystem afterwards.
type Customer struct {
	ID        int64
	UserID    int64
	Name      string
	Email     string
	Phone     string
	Status    Status
	CreatedAt time.Time
}

// Repository defines the customer lookups and the single create the
// provisioning gate needs.
type Repository interface {
	FindByUserID(ctx context.Context, userID int64) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	Create(ctx context.Context, c *Customer) (*Customer, error)
}
