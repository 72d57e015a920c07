package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredentials is returned by SetCredentials when either the token
// or the user is missing.
var ErrInvalidCredentials = errors.New("session: token and user must both be set")

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now, used to judge persisted token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store is the single authoritative holder of the session. It is safe for
// concurrent use.
type Store struct {
	mu    sync.RWMutex
	token string
	user  json.RawMessage

	listeners []func(authenticated bool)

	persister Persister
	logger    logging.Logger
	now       func() time.Time
}

// NewStore creates an empty session. persister may be nil for a memory-only
// session.
func NewStore(persister Persister, logger logging.Logger, opts ...Option) *Store {
	s := &Store{persister: persister, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore rehydrates the session from the persister. A persisted token that
// has already expired, or that has no user, is dropped and the persisted
// copy cleared.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	token, user, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	if len(bytes.TrimSpace(user)) == 0 {
		s.logger.Warn(ctx, "persisted session has no user, discarding")
		if err := s.persister.Clear(ctx); err != nil {
			s.logger.Warn(ctx, "failed to clear partial session", "error", err)
		}
		return nil
	}

	if exp := tokenExpiry(token); !exp.IsZero() && !exp.After(s.now()) {
		s.logger.Info(ctx, "persisted session expired, discarding", "expired_at", exp)
		if err := s.persister.Clear(ctx); err != nil {
			s.logger.Warn(ctx, "failed to clear expired session", "error", err)
		}
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.user = json.RawMessage(user)
	s.mu.Unlock()

	s.notify(true)
	s.logger.Debug(ctx, "session restored")
	return nil
}

// SetCredentials atomically installs a freshly issued token and its user.
func (s *Store) SetCredentials(ctx context.Context, user json.RawMessage, token string) error {
	trimmed := bytes.TrimSpace(user)
	if token == "" || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrInvalidCredentials
	}

	s.mu.Lock()
	s.token = token
	s.user = append(json.RawMessage(nil), trimmed...)
	if s.persister != nil {
		if err := s.persister.Save(context.WithoutCancel(ctx), token, s.user); err != nil {
			s.logger.Warn(ctx, "failed to persist session", "error", err)
		}
	}
	s.mu.Unlock()

	s.notify(true)
	return nil
}

// Logout atomically clears the session. It reports whether the store was
// authenticated before the call; logging out twice is harmless.
func (s *Store) Logout(ctx context.Context) bool {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	s.user = nil
	if wasAuthenticated && s.persister != nil {
		if err := s.persister.Clear(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn(ctx, "failed to clear persisted session", "error", err)
		}
	}
	s.mu.Unlock()

	if wasAuthenticated {
		s.notify(false)
	}
	return wasAuthenticated
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the raw user record, nil when logged out.
func (s *Store) User() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	return append(json.RawMessage(nil), s.user...)
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// ExpiresAt reads the exp claim of the current token. The signature is not
// verified; the zero time means unknown or logged out.
func (s *Store) ExpiresAt() time.Time {
	return tokenExpiry(s.Token())
}

// Subscribe registers fn to be called after every authentication change.
func (s *Store) Subscribe(fn func(authenticated bool)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify(authenticated bool) {
	s.mu.RLock()
	listeners := append([]func(bool){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(authenticated)
	}
}

func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
