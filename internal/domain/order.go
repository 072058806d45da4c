package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the order backend's view of a submitted order. Pricing on an
// order is authoritative on the backend side; the gateway never recomputes
// it after submission.
type Order struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	AddressID     string          `json:"addressId,omitempty"`
	CouponCode    string          `json:"couponCode,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Items         []OrderItem     `json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OrderItem carries the canonical product id and quantity only. Unit
// prices are resolved by the order backend at submission time.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
