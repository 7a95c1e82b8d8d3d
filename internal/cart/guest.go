package cart

import (
	"context"
	"encoding/json"

	"github.com/scentora/storefront/internal/models"
	"github.com/scentora/storefront/internal/store"
)

// GuestBackend keeps the anonymous cart in the persistent local store. No
// operation here performs network I/O.
type GuestBackend struct {
	store store.Store
}

func NewGuestBackend(s store.Store) *GuestBackend {
	return &GuestBackend{store: s}
}

func (g *GuestBackend) RefreshAfterMutate() bool { return false }

// Fetch reads and normalizes the guest cart slot. A missing or malformed
// slot yields an empty cart; guest storage failures must never surface to
// the UI path.
func (g *GuestBackend) Fetch(ctx context.Context) ([]models.CartLine, error) {
	raw, err := g.store.Get(ctx, store.KeyGuestCart)
	if err != nil {
		return []models.CartLine{}, nil
	}
	return parseGuest(raw), nil
}

func (g *GuestBackend) save(ctx context.Context, lines []models.CartLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return g.store.Set(ctx, store.KeyGuestCart, raw)
}

func (g *GuestBackend) Add(ctx context.Context, line models.CartLine) error {
	lines, _ := g.Fetch(ctx)
	line.ServerLineID = "" // guest lines never carry a server id
	lines = dedupe(append(lines, normalizeLine(line)))
	return g.save(ctx, lines)
}

func (g *GuestBackend) Adjust(ctx context.Context, line models.CartLine, delta int) error {
	lines, _ := g.Fetch(ctx)
	key := line.Key()
	for i := range lines {
		if lines[i].Key() != key {
			continue
		}
		q := lines[i].Quantity + delta
		if q < 1 {
			q = 1
		}
		lines[i].Quantity = q
		return g.save(ctx, lines)
	}
	return nil
}

func (g *GuestBackend) Remove(ctx context.Context, line models.CartLine) error {
	lines, _ := g.Fetch(ctx)
	key := line.Key()
	out := lines[:0]
	for _, l := range lines {
		if l.Key() != key {
			out = append(out, l)
		}
	}
	if len(out) == len(lines) {
		return nil
	}
	return g.save(ctx, out)
}

func (g *GuestBackend) Clear(ctx context.Context) error {
	return g.store.Delete(ctx, store.KeyGuestCart)
}
