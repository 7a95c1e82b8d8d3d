package cart

import (
	"context"

	"github.com/scentora/storefront/internal/models"
)

// Backend is one source of cart truth. The engine selects a backend per
// operation from the current identity, so each implementation can enforce
// its own invariants: the guest backend never touches the network, the
// server backend never touches the guest storage slot.
type Backend interface {
	// Fetch returns the normalized, deduplicated cart contents.
	Fetch(ctx context.Context) ([]models.CartLine, error)

	// Add inserts line, or tops up the quantity of an existing line with
	// the same (product, variant) key.
	Add(ctx context.Context, line models.CartLine) error

	// Adjust applies a signed quantity delta to the line. Callers are
	// responsible for the quantity floor; Adjust never sees a delta that
	// would drive a quantity below 1.
	Adjust(ctx context.Context, line models.CartLine, delta int) error

	// Remove deletes the line outright regardless of quantity.
	Remove(ctx context.Context, line models.CartLine) error

	// Clear empties the backing representation after a completed order.
	Clear(ctx context.Context) error

	// RefreshAfterMutate reports whether the engine must re-derive the
	// snapshot from the backend's authoritative state after a mutation,
	// discarding the mutation response itself.
	RefreshAfterMutate() bool
}
