package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wicaksana/paket-portal/internal/domain/user"
)

type fakeUsers struct {
	accounts map[string]user.User // email -> user, password is email-local part + "123"
}

func (f *fakeUsers) Authenticate(_ context.Context, email, password string) (*user.User, error) {
	u, ok := f.accounts[email]
	if !ok || password != u.Name+"123" {
		return nil, user.ErrInvalidCredentials
	}
	return &u, nil
}

func testStore(ttl time.Duration) *Store {
	return NewStore(Config{TTL: ttl}, &fakeUsers{
		accounts: map[string]user.User{
			"budi@paket.test": {ID: 2, Name: "budi", Email: "budi@paket.test", Role: user.RoleCustomer},
		},
	})
}

func TestStore_LoginAndResolve(t *testing.T) {
	s := testStore(time.Hour)

	token, u, err := s.Login(context.Background(), "budi@paket.test", "budi123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, int64(2), u.ID)

	resolved, err := s.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, u, resolved)
}

func TestStore_LoginRejectsBadCredentials(t *testing.T) {
	s := testStore(time.Hour)

	_, _, err := s.Login(context.Background(), "budi@paket.test", "wrong")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, _, err = s.Login(context.Background(), "nobody@paket.test", "budi123")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestStore_ResolveUnknownToken(t *testing.T) {
	s := testStore(time.Hour)
	_, err := s.Resolve("not-a-token")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_ExpiredSessionIsEvicted(t *testing.T) {
	s := testStore(time.Minute)
	current := time.Now()
	s.now = func() time.Time { return current }

	token, _, err := s.Login(context.Background(), "budi@paket.test", "budi123")
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = s.Resolve(token)
	assert.ErrorIs(t, err, ErrNoSession)

	// Eviction happened on access, not just the expiry check.
	s.mu.Lock()
	_, stillThere := s.sessions[token]
	s.mu.Unlock()
	assert.False(t, stillThere)
}

func TestStore_Logout(t *testing.T) {
	s := testStore(time.Hour)

	token, _, err := s.Login(context.Background(), "budi@paket.test", "budi123")
	require.NoError(t, err)

	s.Logout(token)
	_, err = s.Resolve(token)
	assert.ErrorIs(t, err, ErrNoSession)

	// Logging out twice is harmless.
	s.Logout(token)
}

func TestStore_TokensAreUnique(t *testing.T) {
	s := testStore(time.Hour)

	t1, _, err := s.Login(context.Background(), "budi@paket.test", "budi123")
	require.NoError(t, err)
	t2, _, err := s.Login(context.Background(), "budi@paket.test", "budi123")
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)

	// Both sessions stay valid; logging in again does not revoke the first.
	_, err = s.Resolve(t1)
	assert.NoError(t, err)
	_, err = s.Resolve(t2)
	assert.NoError(t, err)
}
