package pos

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is the only cart store. Carts are deliberately never
// deleted; a cleared or checked-out cart stays registered for the
// process lifetime.
type MemStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewMemStore() *MemStore {
	return &MemStore{carts: map[string]*Cart{}}
}

func NewStore() Store {
	return NewMemStore()
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Get(ctx context.Context, cartID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshot(s.getLocked(cartID)), nil
}

func (s *MemStore) Toggle(ctx context.Context, cartID string, item CartItem) (string, Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.getLocked(cartID)

	// First match wins; appends below guarantee there is at most one
	// entry per tag, so "first" is also "only".
	for i, it := range c.Items {
		if it.TagID == item.TagID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.Total -= it.Price
			return ActionRemoved, snapshot(c), nil
		}
	}

	item.ScannedAt = time.Now().UTC()
	c.Items = append(c.Items, item)
	c.Total += item.Price
	return ActionAdded, snapshot(c), nil
}

func (s *MemStore) Clear(ctx context.Context, cartID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := freshCart(cartID)
	s.carts[cartID] = c
	return snapshot(c), nil
}

func (s *MemStore) Checkout(ctx context.Context, cartID string) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.getLocked(cartID)
	if len(c.Items) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	now := time.Now().UTC()
	rec := Receipt{
		ReceiptID:    newReceiptID(now),
		Items:        copyItems(c.Items),
		Total:        c.Total,
		ItemCount:    len(c.Items),
		CheckoutTime: now,
	}

	s.carts[cartID] = freshCart(cartID)
	return rec, nil
}

func (s *MemStore) List(ctx context.Context) ([]CartSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CartSummary, 0, len(s.carts))
	for _, c := range s.carts {
		out = append(out, CartSummary{
			ID:        c.ID,
			ItemCount: len(c.Items),
			Total:     c.Total,
			CreatedAt: c.CreatedAt,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) getLocked(cartID string) *Cart {
	if c, ok := s.carts[cartID]; ok {
		return c
	}
	c := freshCart(cartID)
	s.carts[cartID] = c
	return c
}

func freshCart(cartID string) *Cart {
	return &Cart{
		ID:        cartID,
		Items:     []CartItem{},
		CreatedAt: time.Now().UTC(),
	}
}

// snapshot copies the item slice so callers never alias store state.
func snapshot(c *Cart) Cart {
	out := *c
	out.Items = copyItems(c.Items)
	return out
}

func copyItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}

// newReceiptID stays time-derived for readability but carries a uuid
// fragment so two checkouts in the same millisecond cannot collide.
func newReceiptID(now time.Time) string {
	return fmt.Sprintf("RCP-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
