package rest

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/wicaksana/paket-portal/internal/domain/transaction"
	"github.com/wicaksana/paket-portal/internal/restdata"
)

var _ transaction.Repository = (*TransactionRepository)(nil)

// TransactionRepository implements transaction.Repository against the
// backend transactions collection.
type TransactionRepository struct {
	client *restdata.Client
}

// NewTransactionRepository returns a TransactionRepository using client.
func NewTransactionRepository(client *restdata.Client) *TransactionRepository {
	return &TransactionRepository{client: client}
}

type transactionRecord struct {
	ID            int64           `json:"id,omitempty"`
	UserID        int64           `json:"userId"`
	PackageID     int64           `json:"packageId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
}

// Create persists a new transaction and returns it with its assigned id.
func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	rec := transactionRecord{
		UserID:        t.UserID,
		PackageID:     t.PackageID,
		Amount:        t.Amount,
		Status:        string(t.Status),
		Date:          t.Date,
		PaymentMethod: t.PaymentMethod,
	}
	var created transactionRecord
	if err := r.client.Create(ctx, "transactions", rec, &created); err != nil {
		return nil, errors.Wrap(err, "create transaction")
	}
	out := mapTransaction(created)
	return &out, nil
}

// List returns every recorded transaction for the admin view.
func (r *TransactionRepository) List(ctx context.Context) ([]transaction.Transaction, error) {
	var records []transactionRecord
	if err := r.client.Read(ctx, "transactions", nil, &records); err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	return mapTransactions(records), nil
}

// ListByUser returns the transactions recorded for userID.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64) ([]transaction.Transaction, error) {
	var records []transactionRecord
	if err := r.client.Read(ctx, "transactions", filter("userId", userID), &records); err != nil {
		return nil, errors.Wrapf(err, "list transactions for user %d", userID)
	}
	return mapTransactions(records), nil
}

func mapTransactions(records []transactionRecord) []transaction.Transaction {
	out := make([]transaction.Transaction, len(records))
	for i, rec := range records {
		out[i] = mapTransaction(rec)
	}
	return out
}

func mapTransaction(rec transactionRecord) transaction.Transaction {
	return transaction.Transaction{
		ID:            rec.ID,
		UserID:        rec.UserID,
		PackageID:     rec.PackageID,
		Amount:        rec.Amount,
		Status:        transaction.Status(rec.Status),
		Date:          rec.Date,
		PaymentMethod: rec.PaymentMethod,
	}
}
