package customer

import (
	"context"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/wicaksana/paket-portal/internal/domain/user"
)

// Provisioner guarantees a customer record exists for a user before any
// transaction is recorded, with at-most-one creation per user under
// concurrent checkout attempts from this process.
//
// Mutual exclusion is per user id: concurrent callers for the same user
// join a single in-flight provisioning call and share its outcome; the
// flight is removed when it settles. This does not guard against another
// portal instance racing the backend.
type Provisioner struct {
	repo    Repository
	flights singleflight.Group
	now     func() time.Time

	// proceedOnFailure preserves the original portal's policy of letting
	// checkout continue when provisioning fails. The failure is logged,
	// not silent.
	proceedOnFailure bool
}

// NewProvisioner creates a Provisioner over repo. proceedOnFailure selects
// whether provisioning errors abort checkout or are logged and tolerated.
func NewProvisioner(repo Repository, proceedOnFailure bool) *Provisioner {
	return &Provisioner{
		repo:             repo,
		now:              time.Now,
		proceedOnFailure: proceedOnFailure,
	}
}

// EnsureExists makes sure a customer record exists for u. Lookup order:
// by user id, then by email (a profile may exist under a different internal
// id with the same email), then create with status active.
//
// When the proceed-on-failure policy is active, any error is logged and
// swallowed so checkout is never blocked on provisioning.
func (p *Provisioner) EnsureExists(ctx context.Context, u user.User) error {
	key := strconv.FormatInt(u.ID, 10)
	_, err, _ := p.flights.Do(key, func() (any, error) {
		return nil, p.provision(ctx, u)
	})
	if err == nil {
		return nil
	}
	if p.proceedOnFailure {
		zctx.From(ctx).Error("customer provisioning failed, proceeding with checkout",
			zap.Int64("user_id", u.ID),
			zap.Error(err))
		return nil
	}
	return errors.Wrap(err, "ensure customer exists")
}

func (p *Provisioner) provision(ctx context.Context, u user.User) error {
	_, err := p.repo.FindByUserID(ctx, u.ID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return errors.Wrap(err, "find by user id")
	}

	_, err = p.repo.FindByEmail(ctx, u.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return errors.Wrap(err, "find by email")
	}

	_, err = p.repo.Create(ctx, &Customer{
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Status:    StatusActive,
		CreatedAt: p.now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "create customer")
	}
	return nil
}
