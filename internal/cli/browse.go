package cli

import (
	"context"
	"fmt"
)

// Browse prints the catalog with per-variant pricing.
func (a *App) Browse(ctx context.Context) error {
	products, err := a.catalog.Products(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "catalog unavailable: %v\n", err)
		return err
	}
	for _, p := range products {
		fmt.Fprintf(a.out, "%-12s %-30s %8.2f\n", p.ID, p.Name, p.Price)
		for _, v := range p.Variants {
			fmt.Fprintf(a.out, "  %-10s %-30s %8.2f\n", v.ID, v.Label, v.Price)
		}
	}
	return nil
}

// ShowCart prints the current cart snapshot with a subtotal line.
func (a *App) ShowCart(ctx context.Context) error {
	a.cart.Refresh(ctx)
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Cart is empty")
		return nil
	}
	var total float64
	for _, l := range items {
		fmt.Fprintf(a.out, "%-12s %-30s x%-3d %8.2f\n", l.ProductID, l.Name, l.Quantity, l.Subtotal())
		total += l.Subtotal()
	}
	fmt.Fprintf(a.out, "%45s %8.2f\n", "total", total)
	return nil
}
