package api

import "github.com/scentora/storefront/internal/models"

// AuthRequest is the shared request shape for login, register and
// forgot-password. Only the fields relevant to the current flow are set.
//
// Discriminators follow the backend contract:
//   - OTP "0"            — request a one-time code (register/reset)
//   - OTP "<6 digits>"   — verify a previously requested code
//   - OTPLogin "1"       — request a login code instead of a password check
//   - Verify "1"         — login-flow code verification
//   - Confirm "1"        — reset-flow code verification carrying the new password
type AuthRequest struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Mobile      string `json:"mobile,omitempty"`
	Password    string `json:"password,omitempty"`
	OTP         string `json:"otp,omitempty"`
	OTPLogin    string `json:"otp_login,omitempty"`
	Verify      string `json:"verify,omitempty"`
	Confirm     string `json:"confirm,omitempty"`
	VerifyToken string `json:"verify_token,omitempty"`
}

// AuthResponse is the shared response shape for the auth endpoints. Exactly
// one of the following is meaningful per call: an OTP acknowledgment with a
// verify token, a token+user pair completing authentication, or a bare
// status/message.
type AuthResponse struct {
	Status      string       `json:"status,omitempty"`
	Message     string       `json:"message,omitempty"`
	OTPSent     bool         `json:"otp,omitempty"`
	VerifyToken string       `json:"verify_token,omitempty"`
	Token       string       `json:"token,omitempty"`
	User        *models.User `json:"user,omitempty"`
}

// Authenticated reports whether the response completes an authentication.
func (r *AuthResponse) Authenticated() bool {
	return r != nil && r.Token != "" && r.User != nil && r.User.ID != ""
}

// CartLineRecord is one line of the server cart as returned by the backend.
type CartLineRecord struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productid"`
	VariantID string  `json:"variantid"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

// CartUpsert adds the (possibly negative) Qty delta to the server cart line
// for (UserID, ProductID, VariantID), creating the line when absent.
type CartUpsert struct {
	UserID    string `json:"userid"`
	ProductID string `json:"productid"`
	VariantID string `json:"variantid,omitempty"`
	Qty       int    `json:"qty"`
}

// CheckoutRequest places an order from the current server cart.
type CheckoutRequest struct {
	UserID         string `json:"userid"`
	ShippingID     string `json:"shipping_address_id"`
	BillingID      string `json:"billing_address_id"`
	DeliveryMethod string `json:"delivery_method"`
	ClientRef      string `json:"client_ref,omitempty"`
}

// envelope is the generic wrapper the backend uses for data endpoints.
type envelope[T any] struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}
