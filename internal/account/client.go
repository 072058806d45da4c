// Package account is the HTTP client for the remote account backend,
// which owns registration, credentials and customer profiles. The gateway
// proxies these calls and stores nothing.
package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"storefront-gateway/internal/domain"
)

// ErrDenied is returned when the backend refuses a request: bad
// credentials, unknown account, duplicate email. The wrapped message is
// the backend's user-facing reason.
var ErrDenied = errors.New("account request denied")

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

type RegisterInput struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Phone    string `json:"telefone,omitempty"`
	Address  string `json:"endereco,omitempty"`
}

type ProfileUpdate struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Phone    string `json:"telefone,omitempty"`
	TaxID    string `json:"cpf,omitempty"`
	Address  string `json:"endereco,omitempty"`
	City     string `json:"cidade,omitempty"`
	State    string `json:"estado,omitempty"`
	PostCode string `json:"cep,omitempty"`
}

type customerEnvelope struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Customer *wireCustomer `json:"cliente"`
}

type validateEnvelope struct {
	Success bool   `json:"success"`
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

type wireCustomer struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	Phone     *string   `json:"telefone"`
	TaxID     *string   `json:"cpf"`
	Address   *string   `json:"endereco"`
	City      *string   `json:"cidade"`
	State     *string   `json:"estado"`
	PostCode  *string   `json:"cep"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*domain.Customer, error) {
	return c.customerCall(ctx, http.MethodPost, "/clientes/register", in)
}

// Login verifies credentials and returns the customer on success.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Customer, error) {
	body := map[string]string{"email": email, "senha": password}
	return c.customerCall(ctx, http.MethodPost, "/clientes/login", body)
}

// Profile fetches a customer's profile by id.
func (c *Client) Profile(ctx context.Context, customerID string) (*domain.Customer, error) {
	return c.customerCall(ctx, http.MethodGet, "/user/"+url.PathEscape(customerID), nil)
}

// UpdateProfile replaces a customer's profile fields.
func (c *Client) UpdateProfile(ctx context.Context, customerID string, in ProfileUpdate) (*domain.Customer, error) {
	return c.customerCall(ctx, http.MethodPut, "/user/"+url.PathEscape(customerID), in)
}

// ValidateEmail reports whether an email is already registered.
func (c *Client) ValidateEmail(ctx context.Context, email string) (bool, error) {
	var env validateEnvelope
	if err := c.do(ctx, http.MethodPost, "/clientes/validate", map[string]string{"email": email}, &env); err != nil {
		return false, err
	}
	if !env.Success {
		return false, fmt.Errorf("%w: %s", ErrDenied, env.Message)
	}
	return env.Exists, nil
}

func (c *Client) customerCall(ctx context.Context, method, path string, body interface{}) (*domain.Customer, error) {
	var env customerEnvelope
	if err := c.do(ctx, method, path, body, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Customer == nil {
		return nil, fmt.Errorf("%w: %s", ErrDenied, env.Message)
	}
	return toCustomer(*env.Customer), nil
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

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toCustomer(w wireCustomer) *domain.Customer {
	return &domain.Customer{
		ID:        w.ID,
		Name:      w.Name,
		Email:     w.Email,
		Phone:     strOrEmpty(w.Phone),
		TaxID:     strOrEmpty(w.TaxID),
		Address:   strOrEmpty(w.Address),
		City:      strOrEmpty(w.City),
		State:     strOrEmpty(w.State),
		PostCode:  strOrEmpty(w.PostCode),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
