// Package shop implements the five cart operations and the shop state
// composer behind the tool surface. Logical failures never surface as
// errors: every operation answers with the uniform payload and an
// explanatory message, so a conversational caller always gets guidance
// it can act on. Returned errors are infrastructure-only.
package shop

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"petstores/pkg/cart"
	"petstores/pkg/catalog"
	"petstores/pkg/otel"
)

// Shop executes the cart operations for any session.
type Shop struct {
	catalog *catalog.Catalog
	carts   cart.Store
	log     *zap.Logger
	now     func() time.Time
}

// New creates a shop over the given catalog and cart store.
func New(cat *catalog.Catalog, carts cart.Store, log *zap.Logger) *Shop {
	return &Shop{catalog: cat, carts: carts, log: log, now: time.Now}
}

// Browse returns the shop state filtered by category. No mutation.
func (s *Shop) Browse(ctx context.Context, sessionID, category string) (Response, error) {
	ctx, span := otel.AddSpan(ctx, "shop.browse", attribute.String("category", category))
	defer span.End()

	return s.compose(ctx, sessionID, "Welcome to Petstores! Browse our selection of premium pet food.", category)
}

// Add puts quantity units of the product into the session's cart. A
// second add of the same product increments the existing line item
// instead of duplicating it.
func (s *Shop) Add(ctx context.Context, sessionID, productID string, quantity int) (Response, error) {
	ctx, span := otel.AddSpan(ctx, "shop.add", attribute.String("product_id", productID))
	defer span.End()

	if productID == "" {
		return s.compose(ctx, sessionID, "Missing product ID.", catalog.CategoryAll)
	}
	item, err := s.catalog.Find(productID)
	if err != nil {
		return s.compose(ctx, sessionID, fmt.Sprintf("Product %s not found.", productID), catalog.CategoryAll)
	}
	if quantity < 1 {
		quantity = 1
	}

	if _, err := s.carts.Update(ctx, sessionID, func(c *cart.Cart) {
		c.Add(cart.LineItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  quantity,
			Image:     item.Image,
		})
	}); err != nil {
		return Response{}, fmt.Errorf("add to cart: %w", err)
	}
	s.log.Info("added to cart",
		zap.String("session", sessionID), zap.String("product", productID), zap.Int("quantity", quantity))
	return s.compose(ctx, sessionID, fmt.Sprintf("Added %dx %s to cart.", quantity, item.Name), catalog.CategoryAll)
}

// Remove deletes the product's line item from the session's cart.
func (s *Shop) Remove(ctx context.Context, sessionID, productID string) (Response, error) {
	ctx, span := otel.AddSpan(ctx, "shop.remove", attribute.String("product_id", productID))
	defer span.End()

	if productID == "" {
		return s.compose(ctx, sessionID, "Missing product ID.", catalog.CategoryAll)
	}

	var removed cart.LineItem
	var found bool
	if _, err := s.carts.Update(ctx, sessionID, func(c *cart.Cart) {
		removed, found = c.Remove(productID)
	}); err != nil {
		return Response{}, fmt.Errorf("remove from cart: %w", err)
	}
	if !found {
		return s.compose(ctx, sessionID, "Item not found in cart.", catalog.CategoryAll)
	}
	return s.compose(ctx, sessionID, fmt.Sprintf("Removed %s from cart.", removed.Name), catalog.CategoryAll)
}

// UpdateQuantity sets the quantity of the product's line item. Zero or
// below removes the line item, the same effect as Remove.
func (s *Shop) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (Response, error) {
	ctx, span := otel.AddSpan(ctx, "shop.update_quantity", attribute.String("product_id", productID))
	defer span.End()

	if productID == "" {
		return s.compose(ctx, sessionID, "Missing product ID.", catalog.CategoryAll)
	}

	var li cart.LineItem
	var found bool
	if _, err := s.carts.Update(ctx, sessionID, func(c *cart.Cart) {
		if _, ok := c.Find(productID); !ok {
			return
		}
		found = true
		li, _ = c.SetQuantity(productID, quantity)
	}); err != nil {
		return Response{}, fmt.Errorf("update quantity: %w", err)
	}
	if !found {
		return s.compose(ctx, sessionID, "Item not found in cart.", catalog.CategoryAll)
	}
	if quantity <= 0 {
		return s.compose(ctx, sessionID, fmt.Sprintf("Removed %s from cart.", li.Name), catalog.CategoryAll)
	}
	return s.compose(ctx, sessionID, fmt.Sprintf("Updated %s quantity to %d.", li.Name, quantity), catalog.CategoryAll)
}

// Checkout places the order for the session's cart: it snapshots the
// total and item count, generates an order id and empties the cart,
// all under the session lock. An empty cart gets a guidance message
// and stays untouched.
func (s *Shop) Checkout(ctx context.Context, sessionID string) (Response, error) {
	ctx, span := otel.AddSpan(ctx, "shop.checkout")
	defer span.End()

	var conf *OrderConfirmation
	if _, err := s.carts.Update(ctx, sessionID, func(c *cart.Cart) {
		if c.Empty() {
			return
		}
		conf = &OrderConfirmation{
			OrderID:   s.orderID(),
			Total:     c.Total().Round(2),
			ItemCount: c.ItemCount(),
			Status:    StatusConfirmed,
		}
		c.Clear()
	}); err != nil {
		return Response{}, fmt.Errorf("checkout: %w", err)
	}
	if conf == nil {
		return s.compose(ctx, sessionID, "Your cart is empty. Add some items before checkout!", catalog.CategoryAll)
	}

	s.log.Info("order confirmed",
		zap.String("session", sessionID), zap.String("order", conf.OrderID), zap.Int("items", conf.ItemCount))
	resp, err := s.compose(ctx, sessionID,
		fmt.Sprintf("🎉 Order confirmed! Order ID: %s. Total: $%s for %d item(s). Thank you for shopping at Petstores!",
			conf.OrderID, conf.Total.StringFixed(2), conf.ItemCount),
		catalog.CategoryAll)
	if err != nil {
		return Response{}, err
	}
	resp.OrderConfirmation = conf
	return resp, nil
}

// compose assembles the uniform shop state payload: the filtered
// catalog, the session's cart snapshot, the fixed category list and
// the category that was applied. Unknown or empty categories fall back
// to the full view.
func (s *Shop) compose(ctx context.Context, sessionID, message, category string) (Response, error) {
	if !s.catalog.Valid(category) {
		category = catalog.CategoryAll
	}
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return Response{}, fmt.Errorf("load cart: %w", err)
	}
	return Response{
		Message:         message,
		Products:        s.catalog.Filter(category),
		Cart:            snapshot(c),
		Categories:      s.catalog.Categories(),
		CurrentCategory: category,
	}, nil
}

// orderID builds a short human-legible order code from the current
// time in milliseconds.
func (s *Shop) orderID() string {
	return "PB-" + strings.ToUpper(strconv.FormatInt(s.now().UnixMilli(), 36))
}
