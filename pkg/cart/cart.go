// Package cart defines the per-session shopping cart and its storage
// contract.
package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// LineItem is one cart entry. Name, price and image are captured from
// the catalog at add time so later catalog changes do not alter an
// existing cart.
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// Cart holds a session's line items in insertion order. A product id
// appears at most once and every present line item has quantity >= 1.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Add merges the line item into the cart: an existing entry for the
// same product id has its quantity incremented, otherwise the entry is
// appended.
func (c *Cart) Add(li LineItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == li.ProductID {
			c.Items[i].Quantity += li.Quantity
			return
		}
	}
	c.Items = append(c.Items, li)
}

// Remove deletes the line item for the given product id, reporting the
// removed entry and whether it was present.
func (c *Cart) Remove(productID string) (LineItem, bool) {
	for i, li := range c.Items {
		if li.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return li, true
		}
	}
	return LineItem{}, false
}

// SetQuantity sets the quantity for the given product id. A quantity
// of zero or below removes the line item instead of persisting it.
func (c *Cart) SetQuantity(productID string, quantity int) (LineItem, bool) {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return c.Items[i], true
		}
	}
	return LineItem{}, false
}

// Find returns the line item for the given product id.
func (c *Cart) Find(productID string) (LineItem, bool) {
	for _, li := range c.Items {
		if li.ProductID == productID {
			return li, true
		}
	}
	return LineItem{}, false
}

// Clear removes every line item.
func (c *Cart) Clear() {
	c.Items = nil
}

// Empty reports whether the cart has no line items.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Clone returns a copy that shares no state with the receiver.
func (c Cart) Clone() Cart {
	return Cart{Items: append([]LineItem(nil), c.Items...)}
}

// Total is the exact sum of unit price times quantity over all line
// items. Currency rounding happens at presentation time only.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range c.Items {
		total = total.Add(li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	return total
}

// ItemCount is the sum of quantities across line items.
func (c Cart) ItemCount() int {
	n := 0
	for _, li := range c.Items {
		n += li.Quantity
	}
	return n
}

// Store owns cart lifecycle, one cart per session id. Carts are
// created lazily on first access. Implementations must serialize
// overlapping Update calls for the same session id; distinct sessions
// never contend.
type Store interface {
	// Get returns a detached copy of the session's cart, creating an
	// empty one on first access.
	Get(ctx context.Context, sessionID string) (Cart, error)
	// Update applies fn to the session's cart under the session lock
	// and returns a detached copy of the result.
	Update(ctx context.Context, sessionID string, fn func(*Cart)) (Cart, error)
}
