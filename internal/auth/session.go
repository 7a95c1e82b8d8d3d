// Package auth implements the authentication state machine for the
// storefront: login, registration and password reset, all gated behind a
// shared one-time-code verification step, plus the persisted user session.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/scentora/storefront/internal/api"
	"github.com/scentora/storefront/internal/models"
	"github.com/scentora/storefront/internal/store"
)

// Session holds the authenticated user and their bearer token. It implements
// cart.Identity: an anonymous session, or one whose token aged out of the
// freshness window, reports an empty user id.
type Session struct {
	ttl time.Duration

	// now is a test seam.
	now func() time.Time

	mu       sync.Mutex
	user     *models.User
	token    string
	issuedAt time.Time
}

func NewSession(ttl time.Duration) *Session {
	return &Session{ttl: ttl, now: time.Now}
}

// LoadSession hydrates a session from the local store at startup. Missing or
// malformed persisted state simply yields an anonymous session.
func LoadSession(ctx context.Context, s store.Store, ttl time.Duration) *Session {
	sess := NewSession(ttl)

	user := store.LoadJSON[*models.User](ctx, s, store.KeyUser, nil)
	if user == nil || user.ID == "" {
		return sess
	}

	tok, err := s.Get(ctx, store.KeyUserToken)
	if err != nil || len(tok) == 0 {
		return sess
	}

	var issued time.Time
	if raw, err := s.Get(ctx, store.KeyUserTokenIssuedAt); err == nil && len(raw) > 0 {
		issued, _ = time.Parse(time.RFC3339, string(raw))
	}

	sess.set(user, string(tok), issued)
	return sess
}

func (s *Session) set(user *models.User, token string, issuedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.issuedAt = issuedAt
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.issuedAt = time.Time{}
}

// User returns the authenticated user, or nil for an anonymous session.
// The token freshness window applies: an expired session reads as anonymous.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || !api.TokenFresh(s.token, s.issuedAt, s.ttl, s.now()) {
		return nil
	}
	u := *s.user
	return &u
}

// CurrentUserID implements cart.Identity.
func (s *Session) CurrentUserID() string {
	if u := s.User(); u != nil {
		return u.ID
	}
	return ""
}
