// Package catalog exposes the product listing the shell browses and adds to
// the cart from. Listings are fetched on demand and cached for the session;
// Invalidate drops the cache when a fresh listing is wanted.
package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/scentora/storefront/internal/logging"
	"github.com/scentora/storefront/internal/models"
)

// ProductAPI is the slice of the backend the catalog uses.
type ProductAPI interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

type Service struct {
	client ProductAPI
	log    logging.Logger

	mu     sync.Mutex
	cached []models.Product
}

func NewService(client ProductAPI, log logging.Logger) *Service {
	return &Service{client: client, log: log}
}

// Products returns the catalog, fetching it from the backend on first use.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil {
		products, err := s.client.FetchProducts(ctx)
		if err != nil {
			return nil, err
		}
		s.cached = products
		s.log.Debug(ctx, "catalog fetched", "products", len(products))
	}

	out := make([]models.Product, len(s.cached))
	copy(out, s.cached)
	return out, nil
}

// Invalidate drops the cached listing.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Find locates a product by id, or by case-insensitive name prefix when no id
// matches. Returns nil when nothing matches.
func (s *Service) Find(ctx context.Context, query string) (*models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == query {
			return &products[i], nil
		}
	}
	q := strings.ToLower(query)
	for i := range products {
		if strings.HasPrefix(strings.ToLower(products[i].Name), q) {
			return &products[i], nil
		}
	}
	return nil, nil
}
