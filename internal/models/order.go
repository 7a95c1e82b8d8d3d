package models

import "time"

// Order is the record returned by the backend after checkout.
type Order struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ShippingID     string    `json:"shipping_address_id"`
	BillingID      string    `json:"billing_address_id"`
	DeliveryMethod string    `json:"delivery_method"`
	Total          float64   `json:"total"`
	PlacedAt       time.Time `json:"placed_at"`
}
