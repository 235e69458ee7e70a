package customer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wicaksana/paket-portal/internal/domain/user"
)

// blockingRepo lets the test hold the first lookup open while more callers
// queue up, to exercise the per-user in-flight guard.
type blockingRepo struct {
	release chan struct{}

	mu        sync.Mutex
	created   []Customer
	lookups   atomic.Int64
	byEmail   map[string]*Customer
	byUserID  map[int64]*Customer
	createErr error
}

func newBlockingRepo() *blockingRepo {
	return &blockingRepo{
		release:  make(chan struct{}),
		byEmail:  make(map[string]*Customer),
		byUserID: make(map[int64]*Customer),
	}
}

func (r *blockingRepo) FindByUserID(ctx context.Context, userID int64) (*Customer, error) {
	r.lookups.Add(1)
	<-r.release
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byUserID[userID]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (r *blockingRepo) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byEmail[email]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (r *blockingRepo) Create(ctx context.Context, c *Customer) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	created := *c
	created.ID = int64(len(r.created) + 1)
	r.created = append(r.created, created)
	r.byUserID[c.UserID] = &created
	r.byEmail[c.Email] = &created
	return &created, nil
}

func TestProvisioner_ConcurrentCallsCreateOnce(t *testing.T) {
	repo := newBlockingRepo()
	p := NewProvisioner(repo, false)
	u := user.User{ID: 7, Name: "Budi", Email: "budi@paket.test"}

	const n = 10
	var wg, ready sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		ready.Add(1)
		go func() {
			defer wg.Done()
			ready.Done()
			errs[i] = p.EnsureExists(context.Background(), u)
		}()
	}

	// Let every caller queue up behind the single in-flight lookup before
	// releasing it.
	ready.Wait()
	time.Sleep(100 * time.Millisecond)
	close(repo.release)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, repo.created, 1, "exactly one customer must be created")
	assert.EqualValues(t, 1, repo.lookups.Load(), "queued callers share the single flight")
}

// staticRepo answers lookups from fixed state without blocking.
type staticRepo struct {
	byUserID map[int64]*Customer
	byEmail  map[string]*Customer

	findUserErr  error
	findEmailErr error
	createErr    error
	created      []Customer
}

func (r *staticRepo) FindByUserID(_ context.Context, userID int64) (*Customer, error) {
	if r.findUserErr != nil {
		return nil, r.findUserErr
	}
	if c, ok := r.byUserID[userID]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (r *staticRepo) FindByEmail(_ context.Context, email string) (*Customer, error) {
	if r.findEmailErr != nil {
		return nil, r.findEmailErr
	}
	if c, ok := r.byEmail[email]; ok {
		return c, nil
	}
	return nil, ErrNotFound
}

func (r *staticRepo) Create(_ context.Context, c *Customer) (*Customer, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	created := *c
	created.ID = 1
	r.created = append(r.created, created)
	return &created, nil
}

func TestProvisioner_ExistingByUserID(t *testing.T) {
	repo := &staticRepo{byUserID: map[int64]*Customer{3: {ID: 1, UserID: 3}}}
	p := NewProvisioner(repo, false)

	require.NoError(t, p.EnsureExists(context.Background(), user.User{ID: 3}))
	assert.Empty(t, repo.created)
}

func TestProvisioner_ExistingByEmail(t *testing.T) {
	// Profile stored under a different internal id but the same email:
	// the secondary match prevents a duplicate.
	repo := &staticRepo{byEmail: map[string]*Customer{"siti@paket.test": {ID: 9, UserID: 99}}}
	p := NewProvisioner(repo, false)

	require.NoError(t, p.EnsureExists(context.Background(), user.User{ID: 3, Email: "siti@paket.test"}))
	assert.Empty(t, repo.created)
}

func TestProvisioner_CreatesActiveCustomer(t *testing.T) {
	repo := &staticRepo{}
	p := NewProvisioner(repo, false)
	u := user.User{ID: 5, Name: "Siti", Email: "siti@paket.test", Phone: "0812"}

	require.NoError(t, p.EnsureExists(context.Background(), u))
	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, int64(5), created.UserID)
	assert.Equal(t, StatusActive, created.Status)
	assert.Equal(t, "siti@paket.test", created.Email)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestProvisioner_FailurePolicy(t *testing.T) {
	boom := errors.New("backend down")

	t.Run("proceed on failure swallows the error", func(t *testing.T) {
		repo := &staticRepo{findUserErr: boom}
		p := NewProvisioner(repo, true)
		assert.NoError(t, p.EnsureExists(context.Background(), user.User{ID: 1}))
	})

	t.Run("strict policy propagates the error", func(t *testing.T) {
		repo := &staticRepo{findUserErr: boom}
		p := NewProvisioner(repo, false)
		assert.ErrorIs(t, p.EnsureExists(context.Background(), user.User{ID: 1}), boom)
	})

	t.Run("create failure follows the same policy", func(t *testing.T) {
		repo := &staticRepo{createErr: boom}
		p := NewProvisioner(repo, false)
		assert.ErrorIs(t, p.EnsureExists(context.Background(), user.User{ID: 1}), boom)
	})
}
