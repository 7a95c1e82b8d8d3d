// Package common defines shared sentinel errors used across the storefront
// client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport / backend errors.
	ErrUnavailable      = errors.New("backend unavailable")
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrMalformedReply   = errors.New("malformed response")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("token expired")

	// Cart errors.
	ErrNoServerLine = errors.New("no server cart line id")

	// Expected-absence conditions (not failures; callers branch on these).
	ErrNoAddress = errors.New("no address on file")
)
