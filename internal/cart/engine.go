package cart

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/scentora/storefront/internal/api"
	"github.com/scentora/storefront/internal/common"
	"github.com/scentora/storefront/internal/logging"
	"github.com/scentora/storefront/internal/models"
	"github.com/scentora/storefront/internal/store"
)

// Identity reports who the cart belongs to right now. The auth session
// implements it; an empty id means anonymous (or an aged-out token), which
// puts the engine in guest mode.
type Identity interface {
	CurrentUserID() string
}

// AnonymousIdentity is the Identity used before any auth wiring exists.
type AnonymousIdentity struct{}

func (AnonymousIdentity) CurrentUserID() string { return "" }

// Engine owns the single authoritative cart snapshot and all mutations on
// it. It switches between the guest and server backends per call based on
// the current identity, merges the guest cart into the server cart once per
// login, and guarantees a non-empty server cart at checkout time.
type Engine struct {
	guest    *GuestBackend
	client   api.Client
	identity Identity
	log      logging.Logger

	// refreshing is the single-flight guard: a Refresh that finds it set
	// returns immediately without fetching.
	refreshing atomic.Bool

	mu               sync.Mutex
	snapshot         []models.CartLine
	lastMergedUserID string

	subsMu sync.Mutex
	subs   []chan struct{}
}

func NewEngine(s store.Store, client api.Client, identity Identity, log logging.Logger) *Engine {
	if identity == nil {
		identity = AnonymousIdentity{}
	}
	return &Engine{
		guest:    NewGuestBackend(s),
		client:   client,
		identity: identity,
		log:      log,
		snapshot: []models.CartLine{},
	}
}

// SetIdentity rebinds the engine to a different identity source. Used once
// at startup wiring, before any operation runs.
func (e *Engine) SetIdentity(identity Identity) {
	e.identity = identity
}

// backend picks the source of truth for the current call. Mode is derived
// from identity on every call, never cached.
func (e *Engine) backend() Backend {
	if uid := e.identity.CurrentUserID(); uid != "" {
		return NewServerBackend(e.client, uid)
	}
	return e.guest
}

// Items returns a copy of the current snapshot.
func (e *Engine) Items() []models.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.CartLine, len(e.snapshot))
	copy(out, e.snapshot)
	return out
}

// Subscribe returns a channel that receives a signal whenever the snapshot
// is replaced. Signals are coalesced; consumers re-pull Items on receipt.
func (e *Engine) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	e.subsMu.Lock()
	e.subs = append(e.subs, ch)
	e.subsMu.Unlock()
	return ch
}

func (e *Engine) publish() {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (e *Engine) replace(lines []models.CartLine) {
	if lines == nil {
		lines = []models.CartLine{}
	}
	e.mu.Lock()
	e.snapshot = lines
	e.mu.Unlock()
	e.publish()
}

// Refresh re-derives the snapshot wholesale from the active backend. At most
// one refresh is in flight at a time; a concurrent call is dropped, not
// queued. A server fetch failure degrades to an empty snapshot instead of
// propagating; stale or partial data is never kept.
func (e *Engine) Refresh(ctx context.Context) {
	if !e.refreshing.CompareAndSwap(false, true) {
		return
	}
	defer e.refreshing.Store(false)

	lines, err := e.backend().Fetch(ctx)
	if err != nil {
		e.log.Warn(ctx, "cart refresh failed, degrading to empty snapshot", "error", err)
		lines = []models.CartLine{}
	}
	e.replace(lines)
}

// find locates a snapshot line by key.
func (e *Engine) find(productID, variantID string) (models.CartLine, bool) {
	key := models.CartLine{ProductID: productID, VariantID: variantID}.Key()
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, l := range e.snapshot {
		if l.Key() == key {
			return l, true
		}
	}
	return models.CartLine{}, false
}

// settle updates the snapshot after a successful mutation: server mode goes
// back to the authoritative state via Refresh, guest mode re-reads the local
// slot directly (no network, no single-flight involvement).
func (e *Engine) settle(ctx context.Context, b Backend) {
	if b.RefreshAfterMutate() {
		e.Refresh(ctx)
		return
	}
	lines, _ := e.guest.Fetch(ctx)
	e.replace(lines)
}

// Add puts a product into the cart (or tops up an existing line). Transport
// failures are returned to the caller; the snapshot is left as it was.
func (e *Engine) Add(ctx context.Context, line models.CartLine) error {
	b := e.backend()
	if err := b.Add(ctx, line); err != nil {
		return err
	}
	e.settle(ctx, b)
	return nil
}

// Increment raises the quantity of the identified line by one.
func (e *Engine) Increment(ctx context.Context, productID, variantID string) error {
	line, ok := e.find(productID, variantID)
	if !ok {
		return nil
	}
	b := e.backend()
	if err := b.Adjust(ctx, line, 1); err != nil {
		return err
	}
	e.settle(ctx, b)
	return nil
}

// Decrement lowers the quantity of the identified line by one, with a floor
// of 1: decrementing from 1 is a no-op in guest mode and never issues a
// request in server mode.
func (e *Engine) Decrement(ctx context.Context, productID, variantID string) error {
	line, ok := e.find(productID, variantID)
	if !ok || line.Quantity <= 1 {
		return nil
	}
	b := e.backend()
	if err := b.Adjust(ctx, line, -1); err != nil {
		return err
	}
	e.settle(ctx, b)
	return nil
}

// Remove deletes the identified line outright. In server mode a line without
// a server-assigned id is a no-op (nothing to delete remotely).
func (e *Engine) Remove(ctx context.Context, productID, variantID string) error {
	line, ok := e.find(productID, variantID)
	if !ok {
		return nil
	}
	b := e.backend()
	if err := b.Remove(ctx, line); err != nil {
		if errors.Is(err, common.ErrNoServerLine) {
			return nil
		}
		return err
	}
	e.settle(ctx, b)
	return nil
}

// Clear empties the cart after a completed order.
func (e *Engine) Clear(ctx context.Context) error {
	b := e.backend()
	if err := b.Clear(ctx); err != nil {
		return err
	}
	e.replace(nil)
	return nil
}

// SyncGuestToServer pushes every guest line into the authenticated user's
// server cart. Lines are sent concurrently, each targeting a disjoint
// (product, variant) key, and a single line's failure is logged and
// ignored, not allowed to abort its siblings. Quantities are additive on the
// server, so callers gate this behind the once-per-login guard.
func (e *Engine) SyncGuestToServer(ctx context.Context) {
	userID := e.identity.CurrentUserID()
	if userID == "" {
		return
	}

	lines, _ := e.guest.Fetch(ctx)
	if len(lines) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, line := range lines {
		wg.Add(1)
		go func(l models.CartLine) {
			defer wg.Done()
			err := e.client.UpsertCartLine(ctx, api.CartUpsert{
				UserID:    userID,
				ProductID: l.ProductID,
				VariantID: l.VariantID,
				Qty:       l.Quantity,
			})
			if err != nil {
				e.log.Warn(ctx, "guest line merge failed", "product_id", l.ProductID, "error", err)
			}
		}(line)
	}
	wg.Wait()
}

// EnsureServerCartNotEmpty checks the server cart and, only when it is
// empty, merges the current guest cart into it. Recovers sessions that
// authenticated elsewhere and resume here with items still in local storage.
func (e *Engine) EnsureServerCartNotEmpty(ctx context.Context) error {
	userID := e.identity.CurrentUserID()
	if userID == "" {
		return nil
	}

	records, err := e.client.FetchCart(ctx, userID)
	if err != nil {
		return err
	}
	if len(records) > 0 {
		return nil
	}

	e.SyncGuestToServer(ctx)
	return nil
}

// HandleLogin runs the login-time effect once per new user id: make sure the
// server cart holds the guest items, then re-derive the snapshot. Repeat
// calls for the same id are no-ops; the merge is additive server-side and
// must not run twice in one session.
func (e *Engine) HandleLogin(ctx context.Context, userID string) {
	if userID == "" {
		return
	}

	e.mu.Lock()
	if e.lastMergedUserID == userID {
		e.mu.Unlock()
		return
	}
	e.lastMergedUserID = userID
	e.mu.Unlock()

	if err := e.EnsureServerCartNotEmpty(ctx); err != nil {
		e.log.Warn(ctx, "could not verify server cart at login", "user_id", userID, "error", err)
	}
	e.Refresh(ctx)
}

// HandleLogout recomputes the snapshot from the guest slot immediately, with
// no network call, so the UI shows the guest cart the instant identity is
// cleared.
func (e *Engine) HandleLogout(ctx context.Context) {
	lines, _ := e.guest.Fetch(ctx)
	e.replace(lines)
}
