package shop

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petstores/pkg/cart/memory"
	"petstores/pkg/catalog"
)

const sid = "session-1"

func newShop() *Shop {
	s := New(catalog.Default(), memory.New(), zap.NewNop())
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBrowse(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	resp, err := s.Browse(ctx, sid, "dog")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if resp.Message != "Welcome to Petstores! Browse our selection of premium pet food." {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if len(resp.Products) != 4 {
		t.Fatalf("expected 4 dog products, got %d", len(resp.Products))
	}
	for _, p := range resp.Products {
		if p.Category != "dog" {
			t.Fatalf("product %s has category %s", p.ID, p.Category)
		}
	}
	if resp.CurrentCategory != "dog" {
		t.Fatalf("expected currentCategory dog, got %s", resp.CurrentCategory)
	}
	want := []string{"all", "dog", "cat"}
	for i, tag := range want {
		if resp.Categories[i] != tag {
			t.Fatalf("expected categories %v, got %v", want, resp.Categories)
		}
	}
	if resp.Cart.ItemCount != 0 || len(resp.Cart.Items) != 0 {
		t.Fatalf("expected empty cart snapshot, got %+v", resp.Cart)
	}
}

func TestBrowseCoercesUnknownCategory(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	resp, err := s.Browse(ctx, sid, "bird")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if resp.CurrentCategory != "all" {
		t.Fatalf("expected coercion to all, got %s", resp.CurrentCategory)
	}
	if len(resp.Products) != 8 {
		t.Fatalf("expected full catalog, got %d products", len(resp.Products))
	}
}

func TestAddAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	if _, err := s.Add(ctx, sid, "dog-1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	resp, err := s.Add(ctx, sid, "dog-1", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if resp.Message != "Added 1x Royal Canin Adult Dog to cart." {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if len(resp.Cart.Items) != 1 {
		t.Fatalf("expected one line item, got %d", len(resp.Cart.Items))
	}
	if resp.Cart.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", resp.Cart.Items[0].Quantity)
	}
	if !resp.Cart.Total.Equal(dec("269.97")) {
		t.Fatalf("expected total 269.97, got %s", resp.Cart.Total)
	}
	if resp.Cart.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", resp.Cart.ItemCount)
	}
}

func TestAddMissingProductID(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	resp, err := s.Add(ctx, sid, "", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if resp.Message != "Missing product ID." {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if resp.Cart.ItemCount != 0 {
		t.Fatalf("cart mutated on validation failure: %+v", resp.Cart)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	resp, err := s.Add(ctx, sid, "fish-9", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if resp.Message != "Product fish-9 not found." {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if resp.Cart.ItemCount != 0 {
		t.Fatalf("cart mutated on unknown product: %+v", resp.Cart)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	if _, err := s.Add(ctx, sid, "cat-3", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	resp, err := s.Remove(ctx, sid, "cat-3")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if resp.Message != "Removed Blue Buffalo Tastefuls from cart." {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if resp.Cart.ItemCount != 0 || !resp.Cart.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", resp.Cart)
	}

	resp, err = s.Remove(ctx, sid, "cat-3")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if resp.Message != "Item not found in cart." {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	if _, err := s.Add(ctx, sid, "dog-1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	resp, err := s.UpdateQuantity(ctx, sid, "dog-1", 5)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Message != "Updated Royal Canin Adult Dog quantity to 5." {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if resp.Cart.ItemCount != 5 {
		t.Fatalf("expected item count 5, got %d", resp.Cart.ItemCount)
	}
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	if _, err := s.Add(ctx, sid, "dog-1", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	resp, err := s.UpdateQuantity(ctx, sid, "dog-1", 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Message != "Removed Royal Canin Adult Dog from cart." {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if resp.Cart.ItemCount != 0 || len(resp.Cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", resp.Cart)
	}
}

func TestUpdateQuantityMissingItem(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	resp, err := s.UpdateQuantity(ctx, sid, "dog-1", 3)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Message != "Item not found in cart." {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	if _, err := s.Add(ctx, sid, "dog-2", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	resp, err := s.Checkout(ctx, sid)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	conf := resp.OrderConfirmation
	if conf == nil {
		t.Fatal("expected order confirmation")
	}
	if !strings.HasPrefix(conf.OrderID, "PB-") {
		t.Fatalf("unexpected order id: %s", conf.OrderID)
	}
	if !conf.Total.Equal(dec("74.99")) {
		t.Fatalf("expected confirmation total 74.99, got %s", conf.Total)
	}
	if conf.ItemCount != 1 {
		t.Fatalf("expected confirmation item count 1, got %d", conf.ItemCount)
	}
	if conf.Status != StatusConfirmed {
		t.Fatalf("unexpected status: %s", conf.Status)
	}
	if !strings.Contains(resp.Message, conf.OrderID) || !strings.Contains(resp.Message, "$74.99") {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if resp.Cart.ItemCount != 0 || !resp.Cart.Total.IsZero() {
		t.Fatalf("expected cart reset after checkout, got %+v", resp.Cart)
	}
	if resp.CurrentCategory != "all" {
		t.Fatalf("expected all view after checkout, got %s", resp.CurrentCategory)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	for i := 0; i < 2; i++ {
		resp, err := s.Checkout(ctx, sid)
		if err != nil {
			t.Fatalf("checkout: %v", err)
		}
		if resp.Message != "Your cart is empty. Add some items before checkout!" {
			t.Fatalf("unexpected message: %q", resp.Message)
		}
		if resp.OrderConfirmation != nil {
			t.Fatalf("unexpected confirmation: %+v", resp.OrderConfirmation)
		}
		if resp.Cart.ItemCount != 0 {
			t.Fatalf("expected cart to stay empty, got %+v", resp.Cart)
		}
	}
}

func TestCheckoutTotalMatchesPreCheckoutTotal(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	s.Add(ctx, sid, "dog-1", 2)
	resp, err := s.Add(ctx, sid, "cat-2", 3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	before := resp.Cart.Total

	out, err := s.Checkout(ctx, sid)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !out.OrderConfirmation.Total.Equal(before) {
		t.Fatalf("confirmation total %s != pre-checkout total %s", out.OrderConfirmation.Total, before)
	}
	if out.OrderConfirmation.ItemCount != 5 {
		t.Fatalf("expected item count 5, got %d", out.OrderConfirmation.ItemCount)
	}
}

func TestSessionsDoNotShareCarts(t *testing.T) {
	ctx := context.Background()
	s := newShop()

	if _, err := s.Add(ctx, "session-a", "dog-1", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	resp, err := s.Browse(ctx, "session-b", "all")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if resp.Cart.ItemCount != 0 {
		t.Fatalf("session-b sees session-a's cart: %+v", resp.Cart)
	}
}
