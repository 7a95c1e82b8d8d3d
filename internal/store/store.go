// Package store implements the persistent local store: a small key-value
// repository that survives restarts and holds the auth token, the auth user
// record and the guest cart snapshot.
//
// JSON values go through LoadJSON/SaveJSON, which implement the fail-soft
// contract: a missing or malformed value yields the caller's fallback, never
// an error.
package store

import "context"

// Well-known keys. All writers funnel through the cart and auth services;
// nothing else touches these slots.
const (
	KeyServiceToken         = "service_token"
	KeyServiceTokenIssuedAt = "service_token_issued_at"
	KeyUserToken            = "auth_token"
	KeyUserTokenIssuedAt    = "auth_token_issued_at"
	KeyUser                 = "auth_user"
	KeyGuestCart            = "guest_cart"
)

// Store is a durable key-value repository.
type Store interface {
	// Get returns the stored value, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error

	// SetMany writes all values atomically. Keys that belong together,
	// like a token and its issuance time, go through here so a crash
	// cannot leave half of them behind.
	SetMany(ctx context.Context, values map[string][]byte) error

	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
