// Package api implements the client for the remote storefront REST API:
// auth, cart, address, checkout and catalog endpoints, plus the service-level
// token provisioning used to authorize every call.
package api

import (
	"context"

	"github.com/scentora/storefront/internal/models"
)

// Client is the remote API surface consumed by the storefront services.
type Client interface {
	Close() error

	// Auth. All three calls share the request/response shape; the otp and
	// otp_login discriminators select between "send me a code" and a direct
	// password login.
	Login(ctx context.Context, req AuthRequest) (*AuthResponse, error)
	Register(ctx context.Context, req AuthRequest) (*AuthResponse, error)
	ForgotPassword(ctx context.Context, req AuthRequest) (*AuthResponse, error)

	// Cart. Upsert carries a signed quantity delta; the server adds it to
	// the existing line quantity.
	FetchCart(ctx context.Context, userID string) ([]CartLineRecord, error)
	UpsertCartLine(ctx context.Context, req CartUpsert) error
	DeleteCartLine(ctx context.Context, userID, serverLineID, variantID string) error

	// Addresses.
	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	AddAddress(ctx context.Context, userID string, a models.Address) error
	EditAddress(ctx context.Context, userID string, a models.Address) error
	DeleteAddress(ctx context.Context, userID, addressID string) error
	SetDefaultAddress(ctx context.Context, userID, addressID string) error

	// Checkout.
	Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error)

	// Catalog.
	FetchProducts(ctx context.Context) ([]models.Product, error)
}
