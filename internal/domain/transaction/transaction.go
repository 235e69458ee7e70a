package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status of a recorded transaction.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

// Transaction records one purchase of one package by one user. Immutable
// once created; owned by the backend.
type Transaction struct {
	ID            int64
	UserID        int64
	PackageID     int64
	Amount        decimal.Decimal
	Status        Status
	Date          time.Time
	PaymentMethod string
}

// Repository defines transaction persistence and the listings the customer
// and admin views need.
type Repository interface {
	Create(ctx context.Context, t *Transaction) (*Transaction, error)
	List(ctx context.Context) ([]Transaction, error)
	ListByUser(ctx context.Context, userID int64) ([]Transaction, error)
}
