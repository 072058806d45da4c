package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront-gateway/internal/account"
	"storefront-gateway/internal/cart"
	"storefront-gateway/internal/checkout"
	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/session"
)

type stubCatalog struct {
	products []domain.Product
	err      error
	pingErr  error
}

func (s *stubCatalog) Products(_ context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubCatalog) ProductByID(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) ProductsByCategory(_ context.Context, categoryID string) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	var filtered []domain.Product
	for _, p := range s.products {
		if p.Category.ID == categoryID {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *stubCatalog) Categories(_ context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: "cat-1", Name: "Drinks"}}, s.err
}

func (s *stubCatalog) Ping(_ context.Context) error {
	return s.pingErr
}

type stubAccounts struct {
	customer *domain.Customer
	exists   bool
	err      error
}

func (s *stubAccounts) Register(_ context.Context, _ account.RegisterInput) (*domain.Customer, error) {
	return s.customer, s.err
}

func (s *stubAccounts) Login(_ context.Context, _, _ string) (*domain.Customer, error) {
	return s.customer, s.err
}

func (s *stubAccounts) Profile(_ context.Context, _ string) (*domain.Customer, error) {
	return s.customer, s.err
}

func (s *stubAccounts) UpdateProfile(_ context.Context, _ string, _ account.ProfileUpdate) (*domain.Customer, error) {
	return s.customer, s.err
}

func (s *stubAccounts) ValidateEmail(_ context.Context, _ string) (bool, error) {
	return s.exists, s.err
}

type stubOrders struct {
	order  *domain.Order
	orders []domain.Order
	err    error
}

func (s *stubOrders) Get(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrders) ListByCustomer(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, s.err
}

type stubCheckout struct {
	quote     checkout.Quote
	order     *domain.Order
	err       error
	lastInput checkout.Input
}

func (s *stubCheckout) QuoteFor(_ *cart.Store, _ string) (checkout.Quote, error) {
	return s.quote, s.err
}

func (s *stubCheckout) Submit(_ context.Context, store *cart.Store, in checkout.Input) (*domain.Order, error) {
	s.lastInput = in
	if s.err != nil {
		return nil, s.err
	}
	store.Clear()
	return s.order, s.err
}

func testProducts() []domain.Product {
	return []domain.Product{
		{
			ID:       "p1",
			Name:     "Coffee",
			Price:    decimal.RequireFromString("10.50"),
			Stock:    5,
			Active:   true,
			Category: domain.Category{ID: "cat-1", Name: "Drinks"},
		},
		{
			ID:       "p2",
			Name:     "Mug",
			Price:    decimal.RequireFromString("3.25"),
			Stock:    9,
			Active:   true,
			Category: domain.Category{ID: "cat-2", Name: "Kitchen"},
		},
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.Sessions == nil {
		deps.Sessions = session.NewManager(time.Hour, nil)
	}
	router, err := buildRouter(log.New(io.Discard, "", 0), deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type cartBody struct {
	SessionID  string          `json:"sessionId"`
	Items      []cart.LineItem `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	TotalItems int             `json:"totalItems"`
	Empty      bool            `json:"empty"`
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartBody {
	t.Helper()
	var body cartBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode cart response: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, Deps{Catalog: &stubCatalog{}})
	rec := doJSON(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter(t, Deps{Catalog: &stubCatalog{}})
	if rec := doJSON(t, router, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	router = newTestRouter(t, Deps{Catalog: &stubCatalog{pingErr: domain.ErrBackendUnavailable}})
	if rec := doJSON(t, router, http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestCartFlow(t *testing.T) {
	router := newTestRouter(t, Deps{Catalog: &stubCatalog{products: testProducts()}})

	rec := doJSON(t, router, http.MethodPost, "/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	created := decodeCart(t, rec)
	if created.SessionID == "" || !created.Empty {
		t.Fatalf("unexpected new session: %+v", created)
	}
	base := "/sessions/" + created.SessionID

	rec = doJSON(t, router, http.MethodPost, base+"/cart/items", `{"productId": "p1", "quantity": 2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	body := decodeCart(t, rec)
	if body.TotalItems != 2 || len(body.Items) != 1 {
		t.Fatalf("unexpected cart after add: %+v", body)
	}

	// Adding the same product again accumulates, quantity defaulting to 1.
	rec = doJSON(t, router, http.MethodPost, base+"/cart/items", `{"productId": "p1"}`)
	body = decodeCart(t, rec)
	if body.TotalItems != 3 || len(body.Items) != 1 {
		t.Fatalf("expected accumulated quantity 3, got %+v", body)
	}

	rec = doJSON(t, router, http.MethodPost, base+"/cart/items", `{"productId": "p2", "quantity": 4}`)
	body = decodeCart(t, rec)
	if !body.TotalPrice.Equal(decimal.RequireFromString("44.50")) {
		t.Fatalf("expected total 44.50, got %s", body.TotalPrice)
	}

	rec = doJSON(t, router, http.MethodPatch, base+"/cart/items/p1", `{"quantity": 1}`)
	body = decodeCart(t, rec)
	if body.TotalItems != 5 || body.Items[0].Quantity != 1 {
		t.Fatalf("unexpected cart after update: %+v", body)
	}

	rec = doJSON(t, router, http.MethodDelete, base+"/cart/items/p2", "")
	body = decodeCart(t, rec)
	if len(body.Items) != 1 || body.Items[0].ProductID != "p1" {
		t.Fatalf("unexpected cart after remove: %+v", body)
	}

	if rec = doJSON(t, router, http.MethodDelete, base+"/cart", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, base+"/cart", "")
	body = decodeCart(t, rec)
	if !body.Empty || body.TotalItems != 0 {
		t.Fatalf("expected empty cart, got %+v", body)
	}
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	sessions := session.NewManager(time.Hour, nil)
	id, _ := sessions.Create()
	router := newTestRouter(t, Deps{Sessions: sessions, Catalog: &stubCatalog{products: testProducts()}})

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/cart/items", `{"productId": "ghost"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAddCartItemInvalidQuantity(t *testing.T) {
	sessions := session.NewManager(time.Hour, nil)
	id, store := sessions.Create()
	router := newTestRouter(t, Deps{Sessions: sessions, Catalog: &stubCatalog{products: testProducts()}})

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/cart/items", `{"productId": "p1", "quantity": -2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if store.Len() != 0 {
		t.Fatalf("rejected add must not change the cart")
	}
}

func TestUpdateCartItemMissing(t *testing.T) {
	sessions := session.NewManager(time.Hour, nil)
	id, _ := sessions.Create()
	router := newTestRouter(t, Deps{Sessions: sessions, Catalog: &stubCatalog{}})

	rec := doJSON(t, router, http.MethodPatch, "/sessions/"+id+"/cart/items/ghost", `{"quantity": 2}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCartUnknownSession(t *testing.T) {
	router := newTestRouter(t, Deps{Catalog: &stubCatalog{}})
	rec := doJSON(t, router, http.MethodGet, "/sessions/ghost/cart", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCheckout(t *testing.T) {
	sessions := session.NewManager(time.Hour, nil)
	id, store := sessions.Create()
	if err := store.AddItem(cart.ItemInput{ProductID: "p1", UnitPrice: decimal.RequireFromString("10.50")}, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stub := &stubCheckout{order: &domain.Order{ID: "ord-1", Status: "pending"}}
	router := newTestRouter(t, Deps{Sessions: sessions, Catalog: &stubCatalog{}, Checkout: stub})

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/checkout",
		`{"customerId": "cust-1", "paymentMethod": "credit", "couponCode": "SANTAFE10"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if stub.lastInput.CustomerID != "cust-1" || stub.lastInput.CouponCode != "SANTAFE10" {
		t.Fatalf("unexpected checkout input: %+v", stub.lastInput)
	}
	if store.Len() != 0 {
		t.Fatalf("expected cart cleared after confirmed checkout")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	sessions := session.NewManager(time.Hour, nil)
	id, _ := sessions.Create()
	stub := &stubCheckout{err: checkout.ErrEmptyCart}
	router := newTestRouter(t, Deps{Sessions: sessions, Catalog: &stubCatalog{}, Checkout: stub})

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/checkout",
		`{"customerId": "cust-1", "paymentMethod": "credit"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckoutBackendDown(t *testing.T) {
	sessions := session.NewManager(time.Hour, nil)
	id, store := sessions.Create()
	if err := store.AddItem(cart.ItemInput{ProductID: "p1", UnitPrice: decimal.New(1, 0)}, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stub := &stubCheckout{err: fmt.Errorf("submit order: %w", domain.ErrBackendUnavailable)}
	router := newTestRouter(t, Deps{Sessions: sessions, Catalog: &stubCatalog{}, Checkout: stub})

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/checkout",
		`{"customerId": "cust-1", "paymentMethod": "credit"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestQuote(t *testing.T) {
	sessions := session.NewManager(time.Hour, nil)
	id, _ := sessions.Create()
	stub := &stubCheckout{quote: checkout.Quote{
		Subtotal: decimal.RequireFromString("34.00"),
		Shipping: decimal.RequireFromString("12.00"),
		Total:    decimal.RequireFromString("46.00"),
	}}
	router := newTestRouter(t, Deps{Sessions: sessions, Catalog: &stubCatalog{}, Checkout: stub})

	rec := doJSON(t, router, http.MethodGet, "/sessions/"+id+"/checkout/quote", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var quote checkout.Quote
	if err := json.Unmarshal(rec.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if !quote.Total.Equal(decimal.RequireFromString("46.00")) {
		t.Fatalf("unexpected quote: %+v", quote)
	}
}

func TestListProducts(t *testing.T) {
	router := newTestRouter(t, Deps{Catalog: &stubCatalog{products: testProducts()}})

	rec := doJSON(t, router, http.MethodGet, "/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(body.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(body.Products))
	}

	rec = doJSON(t, router, http.MethodGet, "/products?category=cat-2", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(body.Products) != 1 || body.Products[0].ID != "p2" {
		t.Fatalf("unexpected filtered products: %+v", body.Products)
	}
}

func TestGetProduct(t *testing.T) {
	router := newTestRouter(t, Deps{Catalog: &stubCatalog{products: testProducts()}})

	if rec := doJSON(t, router, http.MethodGet, "/products/p1", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodGet, "/products/ghost", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLoginRejected(t *testing.T) {
	router := newTestRouter(t, Deps{
		Catalog:  &stubCatalog{},
		Accounts: &stubAccounts{err: fmt.Errorf("%w: senha incorreta", account.ErrDenied)},
	})

	rec := doJSON(t, router, http.MethodPost, "/account/login", `{"email": "a@b.c", "password": "wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRegister(t *testing.T) {
	router := newTestRouter(t, Deps{
		Catalog:  &stubCatalog{},
		Accounts: &stubAccounts{customer: &domain.Customer{ID: "cust-1", Name: "Ana", Email: "a@b.c"}},
	})

	rec := doJSON(t, router, http.MethodPost, "/account/register",
		`{"name": "Ana", "email": "a@b.c", "password": "secret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, router, http.MethodPost, "/account/register", `{"email": "a@b.c"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", rec.Code)
	}
}

func TestListOrders(t *testing.T) {
	router := newTestRouter(t, Deps{
		Catalog: &stubCatalog{},
		Orders:  &stubOrders{orders: []domain.Order{{ID: "ord-1"}, {ID: "ord-2"}}},
	})

	rec := doJSON(t, router, http.MethodGet, "/customers/cust-1/orders", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode orders: %v", err)
	}
	if len(body.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(body.Orders))
	}
}

func TestGetOrderNotFound(t *testing.T) {
	router := newTestRouter(t, Deps{
		Catalog: &stubCatalog{},
		Orders:  &stubOrders{err: domain.ErrNotFound},
	})

	rec := doJSON(t, router, http.MethodGet, "/orders/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
