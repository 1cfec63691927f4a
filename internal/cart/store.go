package cart

import (
	"sync"

	"github.com/angelmondragon/storefront/internal/products"
)

// Action is a state transition applied to the Store.
type Action interface {
	apply(items []Item) []Item
}

// Loaded replaces the cart with the server copy.
type Loaded struct {
	Items []Item
}

// Added merges a line into the cart, summing quantities of the same product.
type Added struct {
	Item Item
}

// Removed drops every line of a product.
type Removed struct {
	ProductID string
}

// Cleared empties the cart.
type Cleared struct{}

func (a Loaded) apply(_ []Item) []Item {
	return normalizeItems(a.Items)
}

func (a Added) apply(items []Item) []Item {
	if a.Item.Quantity <= 0 {
		return items
	}
	out := make([]Item, 0, len(items)+1)
	merged := false
	for _, item := range items {
		if item.Product.ProductID == a.Item.Product.ProductID {
			item.Quantity += a.Item.Quantity
			if a.Item.Product.Name != "" {
				item.Product = a.Item.Product
			}
			merged = true
		}
		out = append(out, item)
	}
	if !merged {
		out = append(out, a.Item)
	}
	return out
}

func (a Removed) apply(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Product.ProductID != a.ProductID {
			out = append(out, item)
		}
	}
	return out
}

func (Cleared) apply(_ []Item) []Item {
	return []Item{}
}

// Store is the application-wide cart state. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items []Item
}

func NewStore() *Store {
	return &Store{items: []Item{}}
}

// Dispatch applies action to the current state.
func (s *Store) Dispatch(action Action) {
	if action == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = action.apply(s.items)
}

// Snapshot returns a copy of the current lines.
func (s *Store) Snapshot() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count is the total number of units across lines.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Subtotal is a display-only sum; the backend stays authoritative for totals.
func (s *Store) Subtotal() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, item := range s.items {
		total += item.LineTotal()
	}
	return total
}

// Contains reports whether the product is in the cart.
func (s *Store) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Product.ProductID == productID {
			return true
		}
	}
	return false
}

func itemFor(p products.Product, quantity int) Item {
	return Item{Product: p, Quantity: quantity}
}
