package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/scentora/storefront/internal/common"
	"github.com/scentora/storefront/internal/logging"
	"github.com/scentora/storefront/internal/models"
)

// HTTPClient is the Client implementation over the backend REST API.
// Every call carries the service bearer from the TokenSource.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	hc      *http.Client
	log     logging.Logger
}

func NewHTTPClient(baseURL string, tokens TokenSource, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		tokens:  tokens,
		hc:      &http.Client{},
		log:     log,
	}
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

// do issues one request and decodes the response body into out (when out is
// non-nil). Transport failures map to common.ErrUnavailable, auth failures
// to common.ErrUnauthorized, other non-2xx to common.ErrUnexpectedStatus.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("token provisioning: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s %s: %s", common.ErrUnexpectedStatus, method, path, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedReply, err)
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, req AuthRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, req AuthRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, req AuthRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/forgot-password", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) FetchCart(ctx context.Context, userID string) ([]CartLineRecord, error) {
	var out envelope[[]CartLineRecord]
	in := map[string]string{"userid": userID}
	if err := c.do(ctx, http.MethodPost, "/api/cart/list", in, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) UpsertCartLine(ctx context.Context, req CartUpsert) error {
	var out envelope[json.RawMessage]
	return c.do(ctx, http.MethodPost, "/api/cart", req, &out)
}

func (c *HTTPClient) DeleteCartLine(ctx context.Context, userID, serverLineID, variantID string) error {
	in := map[string]string{
		"userid":    userID,
		"cartid":    serverLineID,
		"variantid": variantID,
	}
	var out envelope[json.RawMessage]
	return c.do(ctx, http.MethodPost, "/api/cart/delete", in, &out)
}

func (c *HTTPClient) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	var out envelope[[]models.Address]
	in := map[string]string{"userid": userID}
	if err := c.do(ctx, http.MethodPost, "/api/address/list", in, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) AddAddress(ctx context.Context, userID string, a models.Address) error {
	return c.addressOp(ctx, "/api/address/add", userID, a)
}

func (c *HTTPClient) EditAddress(ctx context.Context, userID string, a models.Address) error {
	return c.addressOp(ctx, "/api/address/edit", userID, a)
}

func (c *HTTPClient) addressOp(ctx context.Context, path, userID string, a models.Address) error {
	in := struct {
		UserID string `json:"userid"`
		models.Address
	}{UserID: userID, Address: a}
	var out envelope[json.RawMessage]
	return c.do(ctx, http.MethodPost, path, in, &out)
}

func (c *HTTPClient) DeleteAddress(ctx context.Context, userID, addressID string) error {
	in := map[string]string{"userid": userID, "id": addressID}
	var out envelope[json.RawMessage]
	return c.do(ctx, http.MethodPost, "/api/address/delete", in, &out)
}

func (c *HTTPClient) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	in := map[string]string{"userid": userID, "id": addressID}
	var out envelope[json.RawMessage]
	return c.do(ctx, http.MethodPost, "/api/address/default", in, &out)
}

func (c *HTTPClient) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	var out envelope[*models.Order]
	if err := c.do(ctx, http.MethodPost, "/api/checkout", req, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("%w: missing order data", common.ErrMalformedReply)
	}
	return out.Data, nil
}

func (c *HTTPClient) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
