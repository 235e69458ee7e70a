package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested package does not exist.
var ErrNotFound = errors.New("package not found")

// Package represents a purchasable subscription offering. Packages are owned
// by the backend catalog; the cart and checkout layers treat them as
// immutable.
type Package struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description string
	Duration    string
	Category    string
}

// Repository defines catalog operations. List and GetByID serve the customer
// side; Create, Update, and Delete serve admin package management.
type Repository interface {
	List(ctx context.Context) ([]Package, error)
	GetByID(ctx context.Context, id int64) (*Package, error)
	Create(ctx context.Context, p *Package) (*Package, error)
	Update(ctx context.Context, p *Package) (*Package, error)
	Delete(ctx context.Context, id int64) error
}
