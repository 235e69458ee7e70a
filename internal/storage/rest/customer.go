package rest

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/wicaksana/paket-portal/internal/domain/customer"
	"github.com/wicaksana/paket-portal/internal/restdata"
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository against the backend
// customers collection.
type CustomerRepository struct {
	client *restdata.Client
}

// NewCustomerRepository returns a CustomerRepository using client.
func NewCustomerRepository(client *restdata.Client) *CustomerRepository {
	return &CustomerRepository{client: client}
}

type customerRecord struct {
	ID        int64     `json:"id,omitempty"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// FindByUserID returns the customer profile for userID, or
// customer.ErrNotFound.
func (r *CustomerRepository) FindByUserID(ctx context.Context, userID int64) (*customer.Customer, error) {
	var records []customerRecord
	if err := r.client.Read(ctx, "customers", filter("userId", userID), &records); err != nil {
		return nil, errors.Wrapf(err, "find customer by user id %d", userID)
	}
	if len(records) == 0 {
		return nil, customer.ErrNotFound
	}
	c := mapCustomer(records[0])
	return &c, nil
}

// FindByEmail returns the customer profile with the given email, or
// customer.ErrNotFound.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var records []customerRecord
	if err := r.client.Read(ctx, "customers", filterString("email", email), &records); err != nil {
		return nil, errors.Wrapf(err, "find customer by email %q", email)
	}
	if len(records) == 0 {
		return nil, customer.ErrNotFound
	}
	c := mapCustomer(records[0])
	return &c, nil
}

// Create stores a new customer profile and returns it with its assigned id.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	rec := customerRecord{
		UserID:    c.UserID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
	var created customerRecord
	if err := r.client.Create(ctx, "customers", rec, &created); err != nil {
		return nil, errors.Wrap(err, "create customer")
	}
	out := mapCustomer(created)
	return &out, nil
}

// List returns all customer profiles for the admin view.
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	var records []customerRecord
	if err := r.client.Read(ctx, "customers", nil, &records); err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	out := make([]customer.Customer, len(records))
	for i, rec := range records {
		out[i] = mapCustomer(rec)
	}
	return out, nil
}

func mapCustomer(rec customerRecord) customer.Customer {
	return customer.Customer{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Name:      rec.Name,
		Email:     rec.Email,
		Phone:     rec.Phone,
		Status:    customer.Status(rec.Status),
		CreatedAt: rec.CreatedAt,
	}
}
