package culqi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Order states reported by the gateway.
const (
	OrderStatePending  = "pending"
	OrderStatePaid     = "paid"
	OrderStateExpired  = "expired"
	OrderStateDeleted  = "deleted"
	OrderStateRejected = "rejected"
)

// CurrencyPEN is the only currency the store charges in.
const CurrencyPEN = "PEN"

// Response carries the raw gateway answer. Callers branch on StatusCode.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// Created reports whether the gateway accepted the resource (HTTP 201).
func (r *Response) Created() bool {
	return r.StatusCode == http.StatusCreated
}

// GatewayError is returned by callers that treat a non success answer as a failure.
type GatewayError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("culqi: unexpected status %d", e.StatusCode)
}

// NewGatewayError wraps a gateway response.
func NewGatewayError(resp *Response) *GatewayError {
	return &GatewayError{StatusCode: resp.StatusCode, Body: resp.Body}
}

// ChargeRequest is the body of POST /charges. Amount is in cents.
type ChargeRequest struct {
	Amount            int64           `json:"amount"`
	CurrencyCode      string          `json:"currency_code"`
	Email             string          `json:"email"`
	SourceID          string          `json:"source_id"`
	Authentication3DS json.RawMessage `json:"authentication_3DS,omitempty"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
}

// ClientDetails identifies the buyer of an order.
type ClientDetails struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// OrderRequest is the body of POST /orders. ExpirationDate is a unix timestamp.
type OrderRequest struct {
	Amount         int64         `json:"amount"`
	CurrencyCode   string        `json:"currency_code"`
	Description    string        `json:"description"`
	OrderNumber    string        `json:"order_number"`
	ClientDetails  ClientDetails `json:"client_details"`
	ExpirationDate int64         `json:"expiration_date"`
	Confirm        bool          `json:"confirm"`
}

// Order holds the fields of an order body the store acts upon.
type Order struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// DecodeOrder extracts the order id and state from a gateway body.
func DecodeOrder(body []byte) (Order, error) {
	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return Order{}, fmt.Errorf("decode order: %w", err)
	}
	return order, nil
}

// Client exposes the gateway operations used by checkout.
type Client interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*Response, error)
	CreateOrder(ctx context.Context, req OrderRequest) (*Response, error)
	ConsultOrder(ctx context.Context, orderID string) (*Response, error)
}

// HTTPClient implements Client over the Culqi REST API.
type HTTPClient struct {
	baseURL    *url.URL
	secretKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates gateway client authenticated with the secret key.
func NewHTTPClient(baseURL, secretKey string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse culqi url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("culqi url must be absolute")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL:   parsed,
		secretKey: secretKey,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *HTTPClient) CreateCharge(ctx context.Context, req ChargeRequest) (*Response, error) {
	return c.do(ctx, http.MethodPost, "charges", req)
}

func (c *HTTPClient) CreateOrder(ctx context.Context, req OrderRequest) (*Response, error) {
	return c.do(ctx, http.MethodPost, "orders", req)
}

func (c *HTTPClient) ConsultOrder(ctx context.Context, orderID string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path.Join("orders", url.PathEscape(orderID)), nil)
}

func (c *HTTPClient) do(ctx context.Context, method, resource string, payload any) (*Response, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, resource)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", resource, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("culqi %s %s: %w", method, resource, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read culqi response: %w", err)
	}
	if len(raw) == 0 || !json.Valid(raw) {
		// keep the body storable as JSON
		wrapped, _ := json.Marshal(map[string]string{"raw": string(raw)})
		raw = wrapped
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("culqi request rejected",
			slog.String("method", method),
			slog.String("resource", resource),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
	}

	return &Response{StatusCode: resp.StatusCode, Body: raw}, nil
}
