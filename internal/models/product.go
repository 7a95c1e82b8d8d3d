package models

// Variant is one purchasable variation of a product (size, concentration).
type Variant struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Product is a catalog record.
type Product struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Brand    string    `json:"brand,omitempty"`
	ImageRef string    `json:"image,omitempty"`
	Price    float64   `json:"price"`
	Variants []Variant `json:"variants,omitempty"`
}

// DefaultVariant returns the variant that backs an add-to-cart without an
// explicit selection, or nil when the product has no variants.
func (p *Product) DefaultVariant() *Variant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}
