package pos

import (
	"context"
	"errors"
	"time"
)

type CartItem struct {
	TagID     string    `json:"tag_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Category  string    `json:"category"`
	ScannedAt time.Time `json:"scanned_at"`
}

// Cart keeps items in scan order. Total always equals the sum of item
// prices; both are adjusted inside the same store lock.
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	Total     int64      `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
}

// Receipt is a checkout snapshot. It is returned to the caller and
// never kept server-side.
type Receipt struct {
	ReceiptID    string     `json:"receipt_id"`
	Items        []CartItem `json:"items"`
	Total        int64      `json:"total"`
	ItemCount    int        `json:"item_count"`
	CheckoutTime time.Time  `json:"checkout_time"`
}

// CartSummary is the back-office view of one live cart.
type CartSummary struct {
	ID        string    `json:"id"`
	ItemCount int       `json:"item_count"`
	Total     int64     `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

var ErrEmptyCart = errors.New("cart is empty")

// Store owns every read-modify-write on carts. Toggle, Clear and
// Checkout must each be atomic; handlers never compose store calls to
// mutate a cart.
type Store interface {
	Ping(ctx context.Context) error

	// Get returns the cart, creating an empty one on first reference.
	Get(ctx context.Context, cartID string) (Cart, error)

	// Toggle removes the first item carrying item.TagID, or appends
	// item with a fresh scan time when the tag is not in the cart.
	Toggle(ctx context.Context, cartID string, item CartItem) (action string, cart Cart, err error)

	// Clear installs a fresh empty cart under cartID.
	Clear(ctx context.Context, cartID string) (Cart, error)

	// Checkout snapshots a non-empty cart into a receipt and resets
	// the cart. Returns ErrEmptyCart without touching state otherwise.
	Checkout(ctx context.Context, cartID string) (Receipt, error)

	List(ctx context.Context) ([]CartSummary, error)
}
