package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionRow mirrors one row of the transactions table.
type TransactionRow struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"userId"`
	PackageID     int64           `json:"packageId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
}

// TransactionStore persists the transactions collection.
type TransactionStore struct {
	pool *pgxpool.Pool
}

// NewTransactionStore returns a TransactionStore using pool.
func NewTransactionStore(pool *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// List returns transactions ordered by id, optionally filtered by user.
func (s *TransactionStore) List(ctx context.Context, userID *int64) ([]TransactionRow, error) {
	const q = `
		SELECT id, user_id, package_id, amount, status, date, payment_method
		FROM transactions
		WHERE $1::bigint IS NULL OR user_id = $1
		ORDER BY id`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	defer rows.Close()

	out := []TransactionRow{}
	for rows.Next() {
		var t TransactionRow
		if err := rows.Scan(&t.ID, &t.UserID, &t.PackageID, &t.Amount, &t.Status, &t.Date, &t.PaymentMethod); err != nil {
			return nil, errors.Wrap(err, "scan transaction")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate transactions")
	}
	return out, nil
}

// Insert stores a new transaction and returns it with its assigned id.
func (s *TransactionStore) Insert(ctx context.Context, t TransactionRow) (TransactionRow, error) {
	const q = `
		INSERT INTO transactions (user_id, package_id, amount, status, date, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := s.pool.QueryRow(ctx, q, t.UserID, t.PackageID, t.Amount, t.Status, t.Date, t.PaymentMethod).Scan(&t.ID)
	if err != nil {
		return TransactionRow{}, errors.Wrap(err, "insert transaction")
	}
	return t, nil
}
