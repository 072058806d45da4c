package cart

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"storefront-gateway/internal/domain"
)

// LineItem is one product-and-quantity row held in a cart. The canonical
// backend product id is the uniqueness key; UnitPrice is snapshotted when
// the line is first added and never refreshed by quantity changes.
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"imageRef,omitempty"`
}

// ItemInput is a candidate line supplied by a caller, typically built from
// a catalog product. Quantity travels separately so repeated adds of the
// same product accumulate.
type ItemInput struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	ImageRef  string
}

// ValidationError reports a rejected mutation. The cart is left untouched
// when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type subscriber struct {
	id int
	fn func()
}

// Store holds the line items of one shopping session. It is safe for
// concurrent use; every successful mutation notifies all subscribers
// before the mutating call returns. State lives in memory only and is
// gone on process exit.
type Store struct {
	mu     sync.Mutex
	items  []LineItem
	subs   []subscriber
	nextID int
}

func NewStore() *Store {
	return &Store{}
}

// AddItem inserts a new line with the given quantity or, when a line with
// the same product id already exists, increments its quantity in place.
// The existing line's snapshotted name, price and image are kept; only the
// quantity delta from the candidate is applied.
func (s *Store) AddItem(in ItemInput, quantity int) error {
	if strings.TrimSpace(in.ProductID) == "" {
		return &ValidationError{Field: "productId", Reason: "required"}
	}
	if quantity < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if in.UnitPrice.IsNegative() {
		return &ValidationError{Field: "unitPrice", Reason: "must not be negative"}
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ProductID == in.ProductID {
			s.items[i].Quantity += quantity
			s.notifyLocked()
			return nil
		}
	}
	s.items = append(s.items, LineItem{
		ProductID: in.ProductID,
		Name:      in.Name,
		UnitPrice: in.UnitPrice,
		Quantity:  quantity,
		ImageRef:  in.ImageRef,
	})
	s.notifyLocked()
	return nil
}

// RemoveItem drops the line with the given product id. Removing an absent
// id is a no-op.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	if !s.removeLocked(productID) {
		s.mu.Unlock()
		return
	}
	s.notifyLocked()
}

// UpdateQuantity replaces the quantity of an existing line. A quantity of
// zero or below removes the line instead, absent or not. A positive
// quantity for a line that does not exist returns domain.ErrNotFound;
// callers are expected to have added the item first.
func (s *Store) UpdateQuantity(productID string, quantity int) error {
	s.mu.Lock()
	if quantity <= 0 {
		if !s.removeLocked(productID) {
			s.mu.Unlock()
			return nil
		}
		s.notifyLocked()
		return nil
	}
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			s.notifyLocked()
			return nil
		}
	}
	s.mu.Unlock()
	return domain.ErrNotFound
}

// Clear empties the cart unconditionally. Callers submitting an order must
// wait for backend confirmation before clearing so a failed submission
// keeps the user's selection.
func (s *Store) Clear() {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return
	}
	s.items = nil
	s.notifyLocked()
}

// Items returns the lines in insertion order. The slice is a copy.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LineItem(nil), s.items...)
}

// Len reports the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalPrice returns the sum of unitPrice*quantity over all lines,
// recomputed from the lines on every call.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// TotalItems returns the sum of quantities over all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

// Snapshot captures lines and both totals in a single consistent view.
type Snapshot struct {
	Items      []LineItem
	TotalPrice decimal.Decimal
	TotalItems int
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:      append([]LineItem(nil), s.items...),
		TotalPrice: totalPrice(s.items),
		TotalItems: totalItems(s.items),
	}
}

// Subscribe registers fn to run after every successful mutation, in
// subscription order, outside the store lock. The returned func cancels
// the subscription.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := range s.subs {
			if s.subs[i].id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) removeLocked(productID string) bool {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// notifyLocked releases the lock and runs subscriber callbacks, so a
// callback may read the store without deadlocking.
func (s *Store) notifyLocked() {
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn()
	}
}

func totalPrice(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func totalItems(items []LineItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}
