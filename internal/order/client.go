// Package order is the HTTP client for the remote order backend. Orders
// are submitted with canonical product ids and quantities only; the
// backend resolves authoritative prices and stock.
package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"storefront-gateway/internal/domain"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateInput is the order-creation request. Items intentionally carry no
// prices: the gateway's snapshotted unit prices are display-only.
type CreateInput struct {
	CustomerID    string
	AddressID     string
	PaymentMethod string
	CouponCode    string
	Items         []domain.OrderItem
}

type wireCreateRequest struct {
	CustomerID    string     `json:"clienteId"`
	AddressID     string     `json:"enderecoId,omitempty"`
	PaymentMethod string     `json:"formaPagamento"`
	CouponCode    string     `json:"cupom,omitempty"`
	Items         []wireItem `json:"itens"`
}

type wireItem struct {
	ProductID string `json:"produtoId"`
	Quantity  int    `json:"quantidade"`
}

type orderEnvelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Order   *wireOrder `json:"pedido"`
}

type ordersEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Orders  []wireOrder `json:"pedidos"`
}

type wireOrder struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"clienteId"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"formaPagamento"`
	AddressID     string          `json:"enderecoId"`
	CouponCode    string          `json:"cupom"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"frete"`
	Discount      decimal.Decimal `json:"desconto"`
	Total         decimal.Decimal `json:"total"`
	Items         []wireItem      `json:"itens"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Create submits a new order and returns the backend's confirmed record.
func (c *Client) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	items := make([]wireItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, wireItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	req := wireCreateRequest{
		CustomerID:    in.CustomerID,
		AddressID:     in.AddressID,
		PaymentMethod: in.PaymentMethod,
		CouponCode:    in.CouponCode,
		Items:         items,
	}

	var env orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/pedidos", req, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Order == nil {
		return nil, fmt.Errorf("order backend: %s", orUnknown(env.Message))
	}
	return toOrder(*env.Order), nil
}

// Get fetches one order for tracking.
func (c *Client) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	var env orderEnvelope
	if err := c.do(ctx, http.MethodGet, "/pedidos/"+url.PathEscape(orderID), nil, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Order == nil {
		return nil, domain.ErrNotFound
	}
	return toOrder(*env.Order), nil
}

// ListByCustomer fetches a customer's order history, newest first as
// returned by the backend.
func (c *Client) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	var env ordersEnvelope
	path := "/pedidos?clienteId=" + url.QueryEscape(customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("order backend: %s", orUnknown(env.Message))
	}

	orders := make([]domain.Order, 0, len(env.Orders))
	for _, o := range env.Orders {
		orders = append(orders, *toOrder(o))
	}
	return orders, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toOrder(w wireOrder) *domain.Order {
	items := make([]domain.OrderItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, domain.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return &domain.Order{
		ID:            w.ID,
		CustomerID:    w.CustomerID,
		Status:        w.Status,
		PaymentMethod: w.PaymentMethod,
		AddressID:     w.AddressID,
		CouponCode:    w.CouponCode,
		Subtotal:      w.Subtotal,
		Shipping:      w.Shipping,
		Discount:      w.Discount,
		Total:         w.Total,
		Items:         items,
		CreatedAt:     w.CreatedAt,
	}
}

func orUnknown(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	return msg
}
