package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/scentora/storefront/internal/common"
	"github.com/scentora/storefront/internal/logging"
	"github.com/scentora/storefront/internal/store"
)

// TokenSource supplies the bearer credential attached to outbound API calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFresh reports whether a bearer issued at issuedAt is still usable at
// now. When the token is a parseable JWT its exp claim wins; opaque tokens
// fall back to the rolling ttl window measured from issuance.
func TokenFresh(token string, issuedAt time.Time, ttl time.Duration, now time.Time) bool {
	if token == "" {
		return false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return now.Before(exp.Time)
		}
	}

	if issuedAt.IsZero() {
		return false
	}
	return now.Sub(issuedAt) < ttl
}

// TokenProvider exchanges service-level credentials for the app-wide bearer
// token and caches it (in memory and in the local store) for the freshness
// window. It is independent of end-user identity.
type TokenProvider struct {
	baseURL  string
	email    string
	password string
	ttl      time.Duration
	store    store.Store
	hc       *http.Client
	log      logging.Logger

	// now is a test seam.
	now func() time.Time

	mu       sync.Mutex
	cached   string
	issuedAt time.Time
}

func NewTokenProvider(baseURL, email, password string, ttl time.Duration, s store.Store, log logging.Logger) *TokenProvider {
	return &TokenProvider{
		baseURL:  baseURL,
		email:    email,
		password: password,
		ttl:      ttl,
		store:    s,
		hc:       &http.Client{},
		log:      log,
		now:      time.Now,
	}
}

// Token returns a fresh service bearer, fetching a new one from the backend
// when the cached and persisted copies have aged out of the window.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()

	if TokenFresh(p.cached, p.issuedAt, p.ttl, now) {
		return p.cached, nil
	}

	// try the persisted copy before going to the network
	if tok, issued, ok := p.loadPersisted(ctx); ok && TokenFresh(tok, issued, p.ttl, now) {
		p.cached, p.issuedAt = tok, issued
		return tok, nil
	}

	tok, err := p.fetch(ctx)
	if err != nil {
		return "", err
	}

	p.cached, p.issuedAt = tok, now
	if err := p.persist(ctx, tok, now); err != nil {
		// a failed write only costs us a refetch after restart
		p.log.Warn(ctx, "failed to persist service token", "error", err)
	}
	p.log.Info(ctx, "service token refreshed")
	return tok, nil
}

func (p *TokenProvider) loadPersisted(ctx context.Context) (string, time.Time, bool) {
	raw, err := p.store.Get(ctx, store.KeyServiceToken)
	if err != nil || len(raw) == 0 {
		return "", time.Time{}, false
	}
	issuedRaw, err := p.store.Get(ctx, store.KeyServiceTokenIssuedAt)
	if err != nil || len(issuedRaw) == 0 {
		return "", time.Time{}, false
	}
	issued, err := time.Parse(time.RFC3339, string(issuedRaw))
	if err != nil {
		return "", time.Time{}, false
	}
	return string(raw), issued, true
}

func (p *TokenProvider) persist(ctx context.Context, token string, issued time.Time) error {
	return p.store.SetMany(ctx, map[string][]byte{
		store.KeyServiceToken:         []byte(token),
		store.KeyServiceTokenIssuedAt: []byte(issued.Format(time.RFC3339)),
	})
}

func (p *TokenProvider) fetch(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"email":    p.email,
		"password": p.password,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", common.ErrUnexpectedStatus, resp.Status)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMalformedReply, err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: empty token", common.ErrMalformedReply)
	}
	return out.Token, nil
}
