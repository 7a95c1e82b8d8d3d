package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/scentora/storefront/internal/models"
)

// findLine locates a cart line by product id or case-insensitive name prefix.
func (a *App) findLine(query string) (models.CartLine, bool) {
	items := a.cart.Items()
	for _, l := range items {
		if l.ProductID == query {
			return l, true
		}
	}
	q := strings.ToLower(query)
	for _, l := range items {
		if strings.HasPrefix(strings.ToLower(l.Name), q) {
			return l, true
		}
	}
	return models.CartLine{}, false
}

// AddToCart resolves a catalog product and adds one unit of its default
// variant to the cart.
func (a *App) AddToCart(ctx context.Context, query string) error {
	p, err := a.catalog.Find(ctx, query)
	if err != nil {
		fmt.Fprintf(a.out, "catalog unavailable: %v\n", err)
		return err
	}
	if p == nil {
		fmt.Fprintf(a.out, "No product matches %q\n", query)
		return nil
	}

	line := models.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		ImageRef:  p.ImageRef,
		UnitPrice: p.Price,
		Quantity:  1,
	}
	if v := p.DefaultVariant(); v != nil {
		line.VariantID = v.ID
		line.UnitPrice = v.Price
	}

	if err := a.cart.Add(ctx, line); err != nil {
		fmt.Fprintf(a.out, "could not add %s: %v\n", p.Name, err)
		return err
	}
	fmt.Fprintf(a.out, "Added %s\n", p.Name)
	return nil
}

func (a *App) IncrementLine(ctx context.Context, query string) error {
	l, ok := a.findLine(query)
	if !ok {
		fmt.Fprintf(a.out, "No cart line matches %q\n", query)
		return nil
	}
	if err := a.cart.Increment(ctx, l.ProductID, l.VariantID); err != nil {
		fmt.Fprintf(a.out, "could not update %s: %v\n", l.Name, err)
		return err
	}
	return nil
}

func (a *App) DecrementLine(ctx context.Context, query string) error {
	l, ok := a.findLine(query)
	if !ok {
		fmt.Fprintf(a.out, "No cart line matches %q\n", query)
		return nil
	}
	if err := a.cart.Decrement(ctx, l.ProductID, l.VariantID); err != nil {
		fmt.Fprintf(a.out, "could not update %s: %v\n", l.Name, err)
		return err
	}
	return nil
}

func (a *App) RemoveLine(ctx context.Context, query string) error {
	l, ok := a.findLine(query)
	if !ok {
		fmt.Fprintf(a.out, "No cart line matches %q\n", query)
		return nil
	}
	if err := a.cart.Remove(ctx, l.ProductID, l.VariantID); err != nil {
		fmt.Fprintf(a.out, "could not remove %s: %v\n", l.Name, err)
		return err
	}
	fmt.Fprintf(a.out, "Removed %s\n", l.Name)
	return nil
}
