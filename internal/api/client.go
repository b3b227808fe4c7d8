// Package api is the typed client for the remote restaurant backend.
// The backend is the pricing and payment authority once an order is
// placed; this client never caches or retries on its own.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const apiPrefix = "/api/v1"

// ErrUnauthorized signals an expired or invalid session token (HTTP 401
// or 403). Pages redirect to the error screen on it instead of showing
// a retry alert.
var ErrUnauthorized = errors.New("unauthorized")

const HeaderCorrelationID = "X-Correlation-Id"

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient builds a client for the given base URL (without the
// /api/v1 prefix).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// SetToken installs the session token sent as a Bearer credential on
// every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ValidateToken checks the current token with the backend and returns
// the table UUID bound to it.
func (c *Client) ValidateToken(ctx context.Context) (string, error) {
	var resp tokenValidation
	if err := c.do(ctx, http.MethodGet, "/validate-jwt/", nil, &resp); err != nil {
		return "", err
	}
	if !resp.Valid {
		return "", ErrUnauthorized
	}
	return resp.TableUUID, nil
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	err := c.do(ctx, http.MethodGet, "/products/", nil, &out)
	return out, err
}

func (c *Client) Offers(ctx context.Context) ([]Offer, error) {
	var out []Offer
	err := c.do(ctx, http.MethodGet, "/offers/", nil, &out)
	return out, err
}

func (c *Client) Menus(ctx context.Context) ([]Menu, error) {
	var out []Menu
	err := c.do(ctx, http.MethodGet, "/menus/", nil, &out)
	return out, err
}

func (c *Client) MenuCategories(ctx context.Context) ([]MenuCategory, error) {
	var out []MenuCategory
	err := c.do(ctx, http.MethodGet, "/menu-categories/", nil, &out)
	return out, err
}

// CreateOrder submits the confirmed cart. The server assigns the order
// number; on any error the caller leaves the cart untouched.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, "/orders/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePayment settles the table's owed total. Amount is the decimal
// string the backend expects, e.g. "52.33".
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodPost, "/payments/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnpaidOrders returns the server-side snapshot of what the table owes.
// Payment math runs on this, never on the local cart.
func (c *Client) UnpaidOrders(ctx context.Context, tableID string) (*UnpaidOrders, error) {
	var out UnpaidOrders
	if err := c.do(ctx, http.MethodGet, "/tables/"+tableID+"/unpaid-orders/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OpenSessions(ctx context.Context, tableID string) (*OpenSessions, error) {
	var out OpenSessions
	if err := c.do(ctx, http.MethodGet, "/tables/"+tableID+"/open-sessions/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CallWaiter is the single fire-and-forget table notification.
func (c *Client) CallWaiter(ctx context.Context, tableID string) (*WaiterCall, error) {
	var out WaiterCall
	if err := c.do(ctx, http.MethodPost, "/tables/call/"+tableID+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelWaiterCall(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/call-cancel/", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderCorrelationID, uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
