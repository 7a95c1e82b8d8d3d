package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/scentora/storefront/internal/common"
	"github.com/scentora/storefront/internal/models"
)

// promptAddress collects a new shipping address field by field.
func (a *App) promptAddress() (models.Address, error) {
	addr := models.Address{Type: "shipping"}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Door / flat no", &addr.DoorNo},
		{"House / building", &addr.House},
		{"Street", &addr.Street},
		{"City", &addr.City},
		{"Pincode", &addr.Pincode},
		{"District", &addr.District},
		{"State", &addr.State},
		{"Country", &addr.Country},
	}
	for _, f := range fields {
		v, err := GetSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return addr, err
		}
		*f.dst = v
	}
	return addr, nil
}

// Checkout places an order against the default address, prompting for one
// when the address book is empty.
func (a *App) Checkout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Sign in before checking out")
		return nil
	}

	addr, err := a.checkout.DefaultAddress(ctx)
	if errors.Is(err, common.ErrNoAddress) {
		fmt.Fprintln(a.out, "No address on file, let's add one")
		newAddr, perr := a.promptAddress()
		if perr != nil {
			return perr
		}
		if aerr := a.checkout.AddAddress(ctx, newAddr); aerr != nil {
			fmt.Fprintf(a.out, "could not save address: %v\n", aerr)
			return aerr
		}
		addr, err = a.checkout.DefaultAddress(ctx)
	}
	if err != nil {
		fmt.Fprintf(a.out, "address lookup failed: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Shipping to %s, %s %s\n", addr.Street, addr.City, addr.Pincode)

	order, err := a.checkout.PlaceOrder(ctx, addr.ID, addr.ID, "standard")
	if err != nil {
		fmt.Fprintf(a.out, "checkout failed: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Order %s placed, total %.2f\n", order.ID, order.Total)
	a.cart.Refresh(ctx)
	return nil
}
