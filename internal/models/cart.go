// Package models defines client-side data models shared by the storefront
// services.
package models

// CartLine is one product+variant entry in a cart snapshot.
type CartLine struct {
	// ProductID identifies the product. Required.
	ProductID string `json:"product_id"`

	// VariantID identifies the chosen variant; empty means the default
	// variant.
	VariantID string `json:"variant_id,omitempty"`

	// Name and ImageRef are display metadata and may be empty.
	Name     string `json:"name,omitempty"`
	ImageRef string `json:"image,omitempty"`

	// UnitPrice is the per-unit price. Never negative.
	UnitPrice float64 `json:"price"`

	// Quantity is always >= 1; writers clamp lower values.
	Quantity int `json:"qty"`

	// ServerLineID is the server-assigned cart line id. Present only for
	// server-backed lines; guest lines leave it empty.
	ServerLineID string `json:"cart_id,omitempty"`
}

// Key returns the composite identity of a line within a snapshot. Two lines
// with the same key are the same product+variant and must be summed, never
// kept separately.
func (l CartLine) Key() string {
	return l.ProductID + "\x00" + l.VariantID
}

// Subtotal returns quantity × unit price.
func (l CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}
