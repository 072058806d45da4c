package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"storefront-gateway/internal/domain"
)

const productsBody = `{
	"success": true,
	"produtos": [
		{
			"id": "a1b2",
			"nome": "Café Especial",
			"descricao": "Torra média",
			"preco": 10.50,
			"estoque": 12,
			"imagem": "https://cdn.example/cafe.png",
			"ativo": true,
			"categoria": {"id": "cat-1", "nome": "Bebidas"}
		},
		{
			"id": "c3d4",
			"nome": "Caneca",
			"preco": "3.25",
			"estoque": 3,
			"ativo": true,
			"categoria": {"id": "cat-2", "nome": "Utensílios"}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second)
}

func TestProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/produtos" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(productsBody))
	})

	products, err := c.Products(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	first := products[0]
	if first.ID != "a1b2" || first.Name != "Café Especial" || first.Stock != 12 {
		t.Fatalf("unexpected product: %+v", first)
	}
	if !first.Price.Equal(decimal.RequireFromString("10.50")) {
		t.Fatalf("unexpected price: %s", first.Price)
	}
	// The backend sometimes quotes prices; both forms must decode.
	if !products[1].Price.Equal(decimal.RequireFromString("3.25")) {
		t.Fatalf("unexpected quoted price: %s", products[1].Price)
	}
}

func TestProductByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productsBody))
	})

	p, err := c.ProductByID(context.Background(), "c3d4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Caneca" {
		t.Fatalf("unexpected product: %+v", p)
	}

	if _, err := c.ProductByID(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProductsByCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productsBody))
	})

	products, err := c.ProductsByCategory(context.Background(), "cat-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].ID != "c3d4" {
		t.Fatalf("unexpected filter result: %+v", products)
	}
}

func TestCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categorias" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"success": true, "categorias": [{"id": "cat-1", "nome": "Bebidas"}]}`))
	})

	categories, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Bebidas" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}

func TestBackendFailureEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "banco indisponível"}`))
	})

	if _, err := c.Products(context.Background()); err == nil {
		t.Fatalf("expected an error for success=false")
	}
}

func TestBackendServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Products(context.Background())
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
}

func TestBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := NewClient(srv.URL, time.Second)

	if err := c.Ping(context.Background()); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
}
