package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRow mirrors one row of the users table. The password column holds the
// stored credential the portal compares against; it is never returned in
// list responses without an explicit credential filter match.
type UserRow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// UserStore persists the users collection.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore returns a UserStore using pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// List returns users filtered by the non-nil arguments. A password filter
// only matches together with an email filter, which is how the portal's
// login performs its plaintext credential lookup.
func (s *UserStore) List(ctx context.Context, email, password *string) ([]UserRow, error) {
	const q = `
		SELECT id, name, email, phone, role
		FROM users
		WHERE ($1::text IS NULL OR email = $1)
		  AND ($2::text IS NULL OR password = $2)
		ORDER BY id`
	rows, err := s.pool.Query(ctx, q, email, password)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	out := []UserRow{}
	for rows.Next() {
		var u UserRow
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate users")
	}
	return out, nil
}

// Insert stores a new user account (seed tooling only).
func (s *UserStore) Insert(ctx context.Context, u UserRow, password string) (UserRow, error) {
	const q = `
		INSERT INTO users (name, email, phone, password, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			password = EXCLUDED.password,
			role = EXCLUDED.role
		RETURNING id`
	err := s.pool.QueryRow(ctx, q, u.Name, u.Email, u.Phone, password, u.Role).Scan(&u.ID)
	if err != nil {
		return UserRow{}, errors.Wrap(err, "insert user")
	}
	return u, nil
}
