// Package gateway talks to the external payment gateway. The portal only
// depends on the create-order / get-order contract, so any gateway exposing
// it is substitutable; the HTTP client here follows the Cashfree order API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrGatewayUnavailable wraps transport-level failures
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrOrderRejected means the gateway refused the request
	ErrOrderRejected = errors.New("payment gateway rejected the order")
)

// Gateway order statuses as reported by the collaborator
const (
	OrderStatusActive     = "ACTIVE"
	OrderStatusPaid       = "PAID"
	OrderStatusExpired    = "EXPIRED"
	OrderStatusTerminated = "TERMINATED"
)

// Customer is the contact snapshot sent with an order
type Customer struct {
	ID    string `json:"customer_id"`
	Name  string `json:"customer_name"`
	Email string `json:"customer_email"`
	Phone string `json:"customer_phone"`
}

// CreateOrderRequest is the create-session input
type CreateOrderRequest struct {
	OrderID  string   `json:"order_id"`
	Amount   float64  `json:"order_amount"`
	Currency string   `json:"order_currency"`
	Customer Customer `json:"customer_details"`
	Note     string   `json:"order_note,omitempty"`
}

// Order is the gateway's answer to a create-order request
type Order struct {
	OrderID   string `json:"order_id"`
	SessionID string `json:"payment_session_id"`
	Status    string `json:"order_status"`
}

// OrderStatus is the gateway's authoritative view of an order
type OrderStatus struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"order_status"`
	PaymentMethod string `json:"payment_method,omitempty"`
	TransactionID string `json:"cf_payment_id,omitempty"`
}

// IsTerminal reports whether the gateway considers the order settled
func (s *OrderStatus) IsTerminal() bool {
	return s.Status == OrderStatusPaid ||
		s.Status == OrderStatusExpired ||
		s.Status == OrderStatusTerminated
}

// Gateway is the collaborator contract the payment workflow depends on
type Gateway interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*OrderStatus, error)
}

// Client is the HTTP implementation of Gateway
type Client struct {
	baseURL    string
	appID      string
	secretKey  string
	apiVersion string
	http       *http.Client
}

// NewClient creates a gateway client
func NewClient(baseURL, appID, secretKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		appID:      appID,
		secretKey:  secretKey,
		apiVersion: "2023-08-01",
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateOrder requests a checkout session for the order
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pg/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrOrderRejected, resp.StatusCode, msg)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGatewayUnavailable, err)
	}

	return &order, nil
}

// GetOrder fetches the gateway's authoritative status for an order
func (c *Client) GetOrder(ctx context.Context, orderID string) (*OrderStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pg/orders/"+orderID, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrOrderRejected, resp.StatusCode, msg)
	}

	var status OrderStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGatewayUnavailable, err)
	}

	return &status, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-version", c.apiVersion)
	req.Header.Set("x-client-id", c.appID)
	req.Header.Set("x-client-secret", c.secretKey)
}
