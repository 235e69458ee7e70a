// Package session provides the portal's bearer-token session cache. It is
// the server-side counterpart of the original portal's browser-storage
// session: process-local, expiring, backed by a plaintext credential lookup
// against the backend users collection.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/wicaksana/paket-portal/internal/domain/user"
)

// ErrNoSession is returned when a token is unknown or expired.
var ErrNoSession = errors.New("no active session")

// Config tunes the session store.
type Config struct {
	TTL time.Duration `default:"12h" usage:"Session lifetime"`
}

type entry struct {
	user      user.User
	expiresAt time.Time
}

// Store issues and resolves session tokens.
type Store struct {
	users user.Repository
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]entry
}

// NewStore creates a Store authenticating against users.
func NewStore(cfg Config, users user.Repository) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &Store{
		users:    users,
		ttl:      cfg.TTL,
		now:      time.Now,
		sessions: make(map[string]entry),
	}
}

// Login authenticates the email/password pair and issues a session token.
// Returns user.ErrInvalidCredentials when the pair matches no account.
func (s *Store) Login(ctx context.Context, email, password string) (string, user.User, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", user.User{}, err
	}

	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = entry{user: *u, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return token, *u, nil
}

// Resolve returns the user behind token. Expired sessions are evicted on
// access.
func (s *Store) Resolve(token string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return user.User{}, ErrNoSession
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, token)
		return user.User{}, ErrNoSession
	}
	return e.user, nil
}

// Logout discards the session for token, if any.
func (s *Store) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
