package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerRow mirrors one row of the customers table. JSON tags follow the
// wire names the portal uses.
type CustomerRow struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CustomerStore persists the customers collection.
type CustomerStore struct {
	pool *pgxpool.Pool
}

// NewCustomerStore returns a CustomerStore using pool.
func NewCustomerStore(pool *pgxpool.Pool) *CustomerStore {
	return &CustomerStore{pool: pool}
}

// List returns customers ordered by id, filtered by the non-nil arguments.
func (s *CustomerStore) List(ctx context.Context, userID *int64, email *string) ([]CustomerRow, error) {
	const q = `
		SELECT id, user_id, name, email, phone, status, created_at
		FROM customers
		WHERE ($1::bigint IS NULL OR user_id = $1)
		  AND ($2::text IS NULL OR email = $2)
		ORDER BY id`
	rows, err := s.pool.Query(ctx, q, userID, email)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	defer rows.Close()

	out := []CustomerRow{}
	for rows.Next() {
		var c CustomerRow
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan customer")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate customers")
	}
	return out, nil
}

// Insert stores a new customer and returns it with its assigned id. The
// unique index on user_id is the backend-side guard matching the portal's
// at-most-one-customer-per-user invariant.
func (s *CustomerStore) Insert(ctx context.Context, c CustomerRow) (CustomerRow, error) {
	const q = `
		INSERT INTO customers (user_id, name, email, phone, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := s.pool.QueryRow(ctx, q, c.UserID, c.Name, c.Email, c.Phone, c.Status, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return CustomerRow{}, errors.Wrap(err, "insert customer")
	}
	return c, nil
}
