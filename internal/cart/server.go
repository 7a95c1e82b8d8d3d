package cart

import (
	"context"

	"github.com/scentora/storefront/internal/api"
	"github.com/scentora/storefront/internal/common"
	"github.com/scentora/storefront/internal/models"
)

// ServerBackend mutates the remote cart for one authenticated user. It holds
// no local state: every mutation is followed by a full snapshot re-derivation
// (RefreshAfterMutate), and the guest storage slot is never read or written.
type ServerBackend struct {
	client api.Client
	userID string
}

func NewServerBackend(client api.Client, userID string) *ServerBackend {
	return &ServerBackend{client: client, userID: userID}
}

func (s *ServerBackend) RefreshAfterMutate() bool { return true }

func (s *ServerBackend) Fetch(ctx context.Context) ([]models.CartLine, error) {
	records, err := s.client.FetchCart(ctx, s.userID)
	if err != nil {
		return nil, err
	}
	return fromRecords(records), nil
}

func (s *ServerBackend) Add(ctx context.Context, line models.CartLine) error {
	line = normalizeLine(line)
	return s.client.UpsertCartLine(ctx, api.CartUpsert{
		UserID:    s.userID,
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		Qty:       line.Quantity,
	})
}

func (s *ServerBackend) Adjust(ctx context.Context, line models.CartLine, delta int) error {
	return s.client.UpsertCartLine(ctx, api.CartUpsert{
		UserID:    s.userID,
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		Qty:       delta,
	})
}

// Remove deletes a server line. Without a server-assigned line id there is
// nothing to delete remotely, so the call reports ErrNoServerLine and the
// engine treats it as a no-op.
func (s *ServerBackend) Remove(ctx context.Context, line models.CartLine) error {
	if line.ServerLineID == "" {
		return common.ErrNoServerLine
	}
	return s.client.DeleteCartLine(ctx, s.userID, line.ServerLineID, line.VariantID)
}

// Clear is a no-op: the backend empties the server cart itself when an order
// completes. The engine only resets its snapshot.
func (s *ServerBackend) Clear(ctx context.Context) error { return nil }
