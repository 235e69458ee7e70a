package checkout

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/wicaksana/paket-portal/internal/domain/cart"
	"github.com/wicaksana/paket-portal/internal/domain/customer"
	"github.com/wicaksana/paket-portal/internal/domain/transaction"
	"github.com/wicaksana/paket-portal/internal/domain/user"
)

// Sentinel errors for checkout preconditions. All are detected before any
// network effect.
var (
	ErrNotAuthenticated     = errors.New("user is not authenticated")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrIncomplete is returned when one or more transaction creations
	// failed. Already-persisted transactions are not rolled back; the
	// Result carries the per-line detail.
	ErrIncomplete = errors.New("checkout incomplete")
)

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []string{"gopay", "ovo", "dana", "bank"}

// LineFailure records a cart line whose transaction creation failed.
type LineFailure struct {
	PackageID int64
	Err       error
}

// Result reports the outcome of a checkout. The backend offers no
// multi-record transaction primitive, so partial success is possible:
// Succeeded holds the transactions that were persisted, Failed the lines
// that were not.
type Result struct {
	Succeeded []transaction.Transaction
	Failed    []LineFailure
}

// Complete reports whether every cart line produced a transaction.
func (r *Result) Complete() bool {
	return len(r.Failed) == 0
}

// Config tunes the orchestrator.
type Config struct {
	// Timeout bounds a whole checkout invocation, covering provisioning
	// and the transaction fan-out. The original portal had no timeout and
	// could hang forever on an unresponsive backend.
	Timeout time.Duration `default:"30s" usage:"Maximum duration of one checkout"`
}

// Service sequences a checkout: precondition checks, one customer
// provisioning call, then one concurrent transaction creation per cart
// line, and finally cart clearing on full success.
type Service struct {
	provisioner  *customer.Provisioner
	transactions transaction.Repository
	timeout      time.Duration
	now          func() time.Time
}

// NewService creates a checkout Service.
func NewService(cfg Config, provisioner *customer.Provisioner, transactions transaction.Repository) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Service{
		provisioner:  provisioner,
		transactions: transactions,
		timeout:      cfg.Timeout,
		now:          time.Now,
	}
}

// Checkout converts the current cart of u into persisted transactions paid
// with paymentMethod.
//
// On full success the cart (and its discount state) is cleared and the
// created transactions are returned. On any creation failure the cart is
// left untouched and ErrIncomplete is returned together with a Result
// detailing which lines succeeded; succeeded writes are not compensated.
func (s *Service) Checkout(ctx context.Context, u user.User, crt *cart.Cart, paymentMethod string) (*Result, error) {
	if !u.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if !validPaymentMethod(paymentMethod) {
		return nil, errors.Wrapf(ErrInvalidPaymentMethod, "%q", paymentMethod)
	}

	// Snapshot: exactly the lines present at invocation are submitted.
	lines := crt.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Provisioning settles before any transaction is submitted.
	if err := s.provisioner.EnsureExists(ctx, u); err != nil {
		return nil, err
	}

	// Fan out one creation per line and wait for all to settle. A plain
	// errgroup (no shared cancellation) is used on purpose: one failed
	// line must not abort its siblings mid-flight.
	created := make([]*transaction.Transaction, len(lines))
	errs := make([]error, len(lines))
	date := s.now().UTC()

	var g errgroup.Group
	for i, line := range lines {
		g.Go(func() error {
			tx, err := s.transactions.Create(ctx, &transaction.Transaction{
				UserID:        u.ID,
				PackageID:     line.Package.ID,
				Amount:        line.Package.Price,
				Status:        transaction.StatusCompleted,
				Date:          date,
				PaymentMethod: paymentMethod,
			})
			if err != nil {
				errs[i] = err
				return err
			}
			created[i] = tx
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{}
	for i, line := range lines {
		if errs[i] != nil {
			res.Failed = append(res.Failed, LineFailure{PackageID: line.Package.ID, Err: errs[i]})
			continue
		}
		res.Succeeded = append(res.Succeeded, *created[i])
	}

	if !res.Complete() {
		return res, ErrIncomplete
	}

	crt.Clear()
	return res, nil
}

func validPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
