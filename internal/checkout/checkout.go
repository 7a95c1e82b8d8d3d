// Package checkout orchestrates order placement: address selection over the
// backend address book, the non-empty-cart guarantee, and clearing the cart
// once an order completes.
package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/scentora/storefront/internal/api"
	"github.com/scentora/storefront/internal/common"
	"github.com/scentora/storefront/internal/logging"
	"github.com/scentora/storefront/internal/models"
)

// CheckoutAPI is the slice of the backend the orchestrator uses.
type CheckoutAPI interface {
	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	AddAddress(ctx context.Context, userID string, a models.Address) error
	EditAddress(ctx context.Context, userID string, a models.Address) error
	DeleteAddress(ctx context.Context, userID, addressID string) error
	SetDefaultAddress(ctx context.Context, userID, addressID string) error
	Checkout(ctx context.Context, req api.CheckoutRequest) (*models.Order, error)
}

// Cart is the engine surface checkout depends on.
type Cart interface {
	EnsureServerCartNotEmpty(ctx context.Context) error
	Clear(ctx context.Context) error
}

// Identity reports the authenticated user; checkout is meaningless for an
// anonymous session.
type Identity interface {
	CurrentUserID() string
}

type Orchestrator struct {
	client   CheckoutAPI
	cart     Cart
	identity Identity
	log      logging.Logger

	// newRef is a test seam for client order references.
	newRef func() string
}

func NewOrchestrator(client CheckoutAPI, cart Cart, identity Identity, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		client:   client,
		cart:     cart,
		identity: identity,
		log:      log,
		newRef:   uuid.NewString,
	}
}

func (o *Orchestrator) userID() (string, error) {
	uid := o.identity.CurrentUserID()
	if uid == "" {
		return "", common.ErrUnauthorized
	}
	return uid, nil
}

// Addresses lists the user's address book.
func (o *Orchestrator) Addresses(ctx context.Context) ([]models.Address, error) {
	uid, err := o.userID()
	if err != nil {
		return nil, err
	}
	return o.client.ListAddresses(ctx, uid)
}

// DefaultAddress returns the address checkout should preselect: the one
// flagged default, or the first on file. An empty address book reports
// common.ErrNoAddress, an expected-absence condition: the caller opens the
// address-entry form rather than showing an error.
func (o *Orchestrator) DefaultAddress(ctx context.Context) (*models.Address, error) {
	addrs, err := o.Addresses(ctx)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, common.ErrNoAddress
	}
	for i := range addrs {
		if addrs[i].Default {
			return &addrs[i], nil
		}
	}
	return &addrs[0], nil
}

func (o *Orchestrator) AddAddress(ctx context.Context, a models.Address) error {
	uid, err := o.userID()
	if err != nil {
		return err
	}
	return o.client.AddAddress(ctx, uid, a)
}

func (o *Orchestrator) EditAddress(ctx context.Context, a models.Address) error {
	uid, err := o.userID()
	if err != nil {
		return err
	}
	return o.client.EditAddress(ctx, uid, a)
}

func (o *Orchestrator) DeleteAddress(ctx context.Context, addressID string) error {
	uid, err := o.userID()
	if err != nil {
		return err
	}
	return o.client.DeleteAddress(ctx, uid, addressID)
}

func (o *Orchestrator) SetDefaultAddress(ctx context.Context, addressID string) error {
	uid, err := o.userID()
	if err != nil {
		return err
	}
	return o.client.SetDefaultAddress(ctx, uid, addressID)
}

// PlaceOrder places an order from the server cart. The cart engine first
// guarantees the server cart is not empty (merging any lingering guest items),
// and the snapshot is cleared once the order completes.
func (o *Orchestrator) PlaceOrder(ctx context.Context, shippingID, billingID, deliveryMethod string) (*models.Order, error) {
	uid, err := o.userID()
	if err != nil {
		return nil, err
	}

	if err := o.cart.EnsureServerCartNotEmpty(ctx); err != nil {
		return nil, fmt.Errorf("cart verification: %w", err)
	}

	order, err := o.client.Checkout(ctx, api.CheckoutRequest{
		UserID:         uid,
		ShippingID:     shippingID,
		BillingID:      billingID,
		DeliveryMethod: deliveryMethod,
		ClientRef:      o.newRef(),
	})
	if err != nil {
		return nil, err
	}

	if err := o.cart.Clear(ctx); err != nil {
		o.log.Warn(ctx, "failed to clear cart after order", "order_id", order.ID, "error", err)
	}

	o.log.Info(ctx, "order placed", "order_id", order.ID, "user_id", uid)
	return order, nil
}
