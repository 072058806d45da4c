// Package catalog is the HTTP client for the remote catalog backend. The
// backend is the source of truth for products and categories; the gateway
// never caches or persists catalog data.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
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

// The backend answers with a {success, message} envelope and Portuguese
// field names; both are translated at this boundary.
type productsEnvelope struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Products []wireProduct `json:"produtos"`
}

type categoriesEnvelope struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Categories []wireCategory `json:"categorias"`
}

type wireProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	Price       decimal.Decimal `json:"preco"`
	Stock       int             `json:"estoque"`
	Image       string          `json:"imagem"`
	Active      bool            `json:"ativo"`
	Category    wireCategory    `json:"categoria"`
}

type wireCategory struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
}

// Products fetches the full catalog.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var env productsEnvelope
	if err := c.get(ctx, "/produtos", &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("catalog backend: %s", orUnknown(env.Message))
	}

	products := make([]domain.Product, 0, len(env.Products))
	for _, p := range env.Products {
		products = append(products, toProduct(p))
	}
	return products, nil
}

// ProductByID resolves one product. The backend exposes no per-product
// endpoint, so this filters the full listing the same way the storefront
// screens do.
func (c *Client) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ProductsByCategory filters the full listing by category id client-side.
func (c *Client) ProductsByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Category.ID == categoryID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Categories fetches all catalog categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var env categoriesEnvelope
	if err := c.get(ctx, "/categorias", &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("catalog backend: %s", orUnknown(env.Message))
	}

	categories := make([]domain.Category, 0, len(env.Categories))
	for _, cat := range env.Categories {
		categories = append(categories, domain.Category{ID: cat.ID, Name: cat.Name})
	}
	return categories, nil
}

// Ping reports whether the backend is reachable. Used by the readiness
// probe.
func (c *Client) Ping(ctx context.Context) error {
	var env categoriesEnvelope
	return c.get(ctx, "/categorias", &env)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toProduct(p wireProduct) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageRef:    p.Image,
		Active:      p.Active,
		Category:    domain.Category{ID: p.Category.ID, Name: p.Category.Name},
	}
}

func orUnknown(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	return msg
}
