package shop

import (
	"github.com/shopspring/decimal"

	"petstores/pkg/cart"
	"petstores/pkg/catalog"
)

func init() {
	// Prices and totals are JSON numbers in the payload, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// StatusConfirmed is the only order status the shop produces.
const StatusConfirmed = "confirmed"

// CartSnapshot is the cart portion of the shop state payload. The
// total carries two-decimal currency rounding.
type CartSnapshot struct {
	Items     []cart.LineItem `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// OrderConfirmation is attached to the response of a successful
// checkout. It is returned once and not stored.
type OrderConfirmation struct {
	OrderID   string          `json:"orderId"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
	Status    string          `json:"status"`
}

// Response is the uniform shop state returned by every operation. The
// message travels beside the structured payload rather than inside it:
// the adapter renders it as text content.
type Response struct {
	Message string `json:"-"`

	Products          []catalog.Item     `json:"products"`
	Cart              CartSnapshot       `json:"cart"`
	Categories        []string           `json:"categories"`
	CurrentCategory   string             `json:"currentCategory"`
	OrderConfirmation *OrderConfirmation `json:"orderConfirmation,omitempty"`
}

func snapshot(c cart.Cart) CartSnapshot {
	items := c.Items
	if items == nil {
		items = []cart.LineItem{}
	}
	return CartSnapshot{
		Items:     items,
		Total:     c.Total().Round(2),
		ItemCount: c.ItemCount(),
	}
}
