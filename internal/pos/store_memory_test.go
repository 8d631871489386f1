package pos

import (
	"context"
	"errors"
	"testing"
)

func item(tag string, price int64) CartItem {
	return CartItem{TagID: tag, Name: "item " + tag, Price: price, Category: "test"}
}

func checkTotal(t *testing.T, c Cart) {
	t.Helper()

	var sum int64
	for _, it := range c.Items {
		sum += it.Price
	}
	if c.Total != sum {
		t.Fatalf("cart %q: total=%d but items sum to %d", c.ID, c.Total, sum)
	}
}

func TestToggle_SecondScanRestoresCart(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	before, err := s.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	action, cart, err := s.Toggle(ctx, "c1", item("A1B2C3D4", 40))
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if action != ActionAdded {
		t.Fatalf("action=%q", action)
	}
	if cart.Total != 40 || len(cart.Items) != 1 {
		t.Fatalf("after add: total=%d items=%d", cart.Total, len(cart.Items))
	}
	if cart.Items[0].ScannedAt.IsZero() {
		t.Fatalf("scanned_at not set")
	}
	checkTotal(t, cart)

	action, cart, err = s.Toggle(ctx, "c1", item("A1B2C3D4", 40))
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if action != ActionRemoved {
		t.Fatalf("action=%q", action)
	}
	if cart.Total != before.Total || len(cart.Items) != len(before.Items) {
		t.Fatalf("after remove: total=%d items=%d, want pre-scan %d/%d",
			cart.Total, len(cart.Items), before.Total, len(before.Items))
	}
	checkTotal(t, cart)
}

func TestToggle_KeepsScanOrderAndSingleSlotPerTag(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	tags := []struct {
		tag   string
		price int64
	}{
		{"A1B2C3D4", 40},
		{"E5F6A7B8", 55},
		{"11223344", 120},
	}

	var cart Cart
	for _, tc := range tags {
		var err error
		_, cart, err = s.Toggle(ctx, "c1", item(tc.tag, tc.price))
		if err != nil {
			t.Fatalf("toggle %s: %v", tc.tag, err)
		}
		checkTotal(t, cart)
	}

	for i, tc := range tags {
		if cart.Items[i].TagID != tc.tag {
			t.Fatalf("item[%d]=%s, want %s", i, cart.Items[i].TagID, tc.tag)
		}
	}

	// Remove the middle item; order of the rest must hold.
	_, cart, err := s.Toggle(ctx, "c1", item("E5F6A7B8", 55))
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(cart.Items) != 2 || cart.Items[0].TagID != "A1B2C3D4" || cart.Items[1].TagID != "11223344" {
		t.Fatalf("unexpected items after removal: %+v", cart.Items)
	}
	checkTotal(t, cart)

	// Re-adding appends at the end, never a second slot.
	_, cart, err = s.Toggle(ctx, "c1", item("E5F6A7B8", 55))
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if cart.Items[len(cart.Items)-1].TagID != "E5F6A7B8" {
		t.Fatalf("re-added item not last: %+v", cart.Items)
	}
	n := 0
	for _, it := range cart.Items {
		if it.TagID == "E5F6A7B8" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("tag occupies %d slots", n)
	}
	checkTotal(t, cart)
}

func TestCheckout_SnapshotsThenResets(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, _, _ = s.Toggle(ctx, "c1", item("A1B2C3D4", 40))
	_, before, err := s.Toggle(ctx, "c1", item("E5F6A7B8", 55))
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	rec, err := s.Checkout(ctx, "c1")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if rec.ReceiptID == "" {
		t.Fatalf("empty receipt id")
	}
	if rec.Total != before.Total {
		t.Fatalf("receipt total=%d, cart had %d", rec.Total, before.Total)
	}
	if rec.ItemCount != len(before.Items) || len(rec.Items) != len(before.Items) {
		t.Fatalf("receipt items=%d/%d, cart had %d", rec.ItemCount, len(rec.Items), len(before.Items))
	}
	if rec.CheckoutTime.IsZero() {
		t.Fatalf("checkout time not set")
	}

	after, err := s.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.Total != 0 || len(after.Items) != 0 {
		t.Fatalf("cart not reset: total=%d items=%d", after.Total, len(after.Items))
	}
	if !after.CreatedAt.After(before.CreatedAt) && !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("reset cart carries stale created_at")
	}

	// The receipt is a snapshot: a later scan must not leak into it.
	_, _, _ = s.Toggle(ctx, "c1", item("A1B2C3D4", 40))
	if len(rec.Items) != 2 {
		t.Fatalf("receipt mutated after checkout: %d items", len(rec.Items))
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, err := s.Checkout(ctx, "c1")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err=%v, want ErrEmptyCart", err)
	}

	c, err := s.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.Total != 0 || len(c.Items) != 0 {
		t.Fatalf("failed checkout mutated cart: %+v", c)
	}
}

func TestClear_AlwaysYieldsEmptyCart(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	// Clearing a cart nobody referenced before behaves like creating one.
	c, err := s.Clear(ctx, "fresh")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if c.Total != 0 || len(c.Items) != 0 {
		t.Fatalf("cleared cart not empty: %+v", c)
	}

	_, _, _ = s.Toggle(ctx, "c1", item("A1B2C3D4", 40))
	_, _, _ = s.Toggle(ctx, "c1", item("E5F6A7B8", 55))

	c, err = s.Clear(ctx, "c1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if c.Total != 0 || len(c.Items) != 0 {
		t.Fatalf("cleared cart not empty: %+v", c)
	}
}

func TestCheckout_ReceiptIDsUnique(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	seen := make(map[string]struct{}, 200)
	for i := 0; i < 200; i++ {
		_, _, _ = s.Toggle(ctx, "c1", item("A1B2C3D4", 40))
		rec, err := s.Checkout(ctx, "c1")
		if err != nil {
			t.Fatalf("checkout %d: %v", i, err)
		}
		if _, dup := seen[rec.ReceiptID]; dup {
			t.Fatalf("duplicate receipt id %q", rec.ReceiptID)
		}
		seen[rec.ReceiptID] = struct{}{}
	}
}

func TestList_SummarizesLiveCarts(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, _, _ = s.Toggle(ctx, "till-2", item("A1B2C3D4", 40))
	_, _, _ = s.Toggle(ctx, "till-1", item("E5F6A7B8", 55))
	_, _, _ = s.Toggle(ctx, "till-1", item("11223344", 120))

	out, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len=%d", len(out))
	}
	if out[0].ID != "till-1" || out[1].ID != "till-2" {
		t.Fatalf("not sorted by id: %+v", out)
	}
	if out[0].ItemCount != 2 || out[0].Total != 175 {
		t.Fatalf("till-1 summary: %+v", out[0])
	}
}
