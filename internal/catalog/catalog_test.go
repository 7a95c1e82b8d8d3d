package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scentora/storefront/internal/logging"
	"github.com/scentora/storefront/internal/models"
)

type fakeProductAPI struct {
	products []models.Product
	err      error
	fetches  int
}

func (f *fakeProductAPI) FetchProducts(context.Context) ([]models.Product, error) {
	f.fetches++
	return f.products, f.err
}

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Amber Oud", Price: 120},
		{ID: "p2", Name: "Rose Elixir", Price: 90, Variants: []models.Variant{
			{ID: "v1", Label: "50ml", Price: 90},
			{ID: "v2", Label: "100ml", Price: 150},
		}},
	}
}

func TestProducts_FetchesOnceAndCaches(t *testing.T) {
	client := &fakeProductAPI{products: sampleProducts()}
	s := NewService(client, logging.NewNop())
	ctx := context.Background()

	got, err := s.Products(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	_, err = s.Products(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, client.fetches)
}

func TestProducts_FetchErrorIsNotCached(t *testing.T) {
	client := &fakeProductAPI{err: context.DeadlineExceeded}
	s := NewService(client, logging.NewNop())
	ctx := context.Background()

	_, err := s.Products(ctx)
	require.Error(t, err)

	client.err = nil
	client.products = sampleProducts()
	got, err := s.Products(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	client := &fakeProductAPI{products: sampleProducts()}
	s := NewService(client, logging.NewNop())
	ctx := context.Background()

	_, err := s.Products(ctx)
	require.NoError(t, err)

	s.Invalidate()
	_, err = s.Products(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, client.fetches)
}

func TestFind(t *testing.T) {
	client := &fakeProductAPI{products: sampleProducts()}
	s := NewService(client, logging.NewNop())
	ctx := context.Background()

	byID, err := s.Find(ctx, "p2")
	require.NoError(t, err)
	require.NotNil(t, byID)
	require.Equal(t, "Rose Elixir", byID.Name)

	byName, err := s.Find(ctx, "amber")
	require.NoError(t, err)
	require.NotNil(t, byName)
	require.Equal(t, "p1", byName.ID)

	missing, err := s.Find(ctx, "vetiver")
	require.NoError(t, err)
	require.Nil(t, missing)
}
