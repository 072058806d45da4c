// Package checkout turns a cart into an order submission. The cart is
// cleared only after the order backend confirms; any failure leaves the
// shopper's selection intact for retry.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-gateway/internal/cart"
	"storefront-gateway/internal/domain"
	orderclient "storefront-gateway/internal/order"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidCoupon        = errors.New("invalid coupon code")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// The storefront offers payment on delivery by card or cash, or the
// store's installment plan.
var paymentMethods = map[string]bool{
	"credit":    true,
	"cash":      true,
	"crediario": true,
}

type orderBackend interface {
	Create(ctx context.Context, in orderclient.CreateInput) (*domain.Order, error)
}

type Service struct {
	orders      orderBackend
	shippingFee decimal.Decimal
	coupons     map[string]decimal.Decimal
}

func New(orders orderBackend, shippingFee decimal.Decimal) *Service {
	return &Service{
		orders:      orders,
		shippingFee: shippingFee,
		coupons: map[string]decimal.Decimal{
			"santafe10": decimal.NewFromInt(15),
		},
	}
}

// Quote is the price breakdown shown on the checkout screen.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Input identifies the shopper's checkout choices.
type Input struct {
	CustomerID    string
	AddressID     string
	PaymentMethod string
	CouponCode    string
}

// QuoteFor prices the current cart contents. An unknown non-empty coupon
// code is rejected rather than silently ignored.
func (s *Service) QuoteFor(store *cart.Store, couponCode string) (Quote, error) {
	return s.quote(store.TotalPrice(), couponCode)
}

// Submit prices the cart, sends the order to the backend and clears the
// cart on confirmation. Line items travel as canonical product id plus
// quantity; the backend re-resolves prices and stock.
func (s *Service) Submit(ctx context.Context, store *cart.Store, in Input) (*domain.Order, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, fmt.Errorf("customer id required")
	}
	if !paymentMethods[strings.ToLower(strings.TrimSpace(in.PaymentMethod))] {
		return nil, ErrUnknownPaymentMethod
	}

	snap := store.Snapshot()
	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if _, err := s.quote(snap.TotalPrice, in.CouponCode); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(snap.Items))
	for _, line := range snap.Items {
		items = append(items, domain.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	placed, err := s.orders.Create(ctx, orderclient.CreateInput{
		CustomerID:    in.CustomerID,
		AddressID:     in.AddressID,
		PaymentMethod: strings.ToLower(strings.TrimSpace(in.PaymentMethod)),
		CouponCode:    strings.TrimSpace(in.CouponCode),
		Items:         items,
	})
	if err != nil {
		// Cart stays as-is so the shopper can retry.
		return nil, fmt.Errorf("submit order: %w", err)
	}

	store.Clear()
	return placed, nil
}

func (s *Service) quote(subtotal decimal.Decimal, couponCode string) (Quote, error) {
	discount := decimal.Zero
	if code := strings.ToLower(strings.TrimSpace(couponCode)); code != "" {
		d, ok := s.coupons[code]
		if !ok {
			return Quote{}, ErrInvalidCoupon
		}
		discount = d
	}

	total := subtotal.Add(s.shippingFee).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Quote{
		Subtotal: subtotal,
		Shipping: s.shippingFee,
		Discount: discount,
		Total:    total,
	}, nil
}
