// Package catalog holds the immutable set of purchasable items.
package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Item is a single catalog product. Items are created once at process
// start and never mutated.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

// ErrNotFound indicates the requested item does not exist.
var ErrNotFound = errors.New("item not found")

// CategoryAll is the filter that selects every item.
const CategoryAll = "all"

// Catalog is an immutable, ordered collection of items.
type Catalog struct {
	items      []Item
	byID       map[string]Item
	categories []string
}

// New builds a catalog from the given items. The slice is copied; the
// catalog never changes afterwards.
func New(items []Item) *Catalog {
	c := &Catalog{
		items:      append([]Item(nil), items...),
		byID:       make(map[string]Item, len(items)),
		categories: []string{CategoryAll},
	}
	seen := map[string]bool{CategoryAll: true}
	for _, it := range c.items {
		c.byID[it.ID] = it
		if !seen[it.Category] {
			seen[it.Category] = true
			c.categories = append(c.categories, it.Category)
		}
	}
	return c
}

// All returns every item in catalog order.
func (c *Catalog) All() []Item {
	return append([]Item(nil), c.items...)
}

// Find returns the item with the given id.
func (c *Catalog) Find(id string) (Item, error) {
	it, ok := c.byID[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

// Filter returns the items in the given category, or all items when
// the category is CategoryAll.
func (c *Catalog) Filter(category string) []Item {
	if category == CategoryAll {
		return c.All()
	}
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// Valid reports whether category names a known filter.
func (c *Catalog) Valid(category string) bool {
	for _, tag := range c.categories {
		if tag == category {
			return true
		}
	}
	return false
}

// Categories returns the fixed filter list: CategoryAll followed by
// every category tag present in the catalog, in first-seen order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Default returns the built-in pet food catalog: four dog and four cat
// products.
func Default() *Catalog {
	return New([]Item{
		{
			ID:          "dog-1",
			Name:        "Royal Canin Adult Dog",
			Price:       price("89.99"),
			Description: "Premium nutrition for adult dogs, supports healthy digestion",
			Category:    "dog",
			Image:       "https://placehold.co/200x200/e8d5b7/333?text=🐕+Royal+Canin",
		},
		{
			ID:          "dog-2",
			Name:        "Hill's Science Diet Puppy",
			Price:       price("74.99"),
			Description: "Specially formulated for growing puppies with DHA",
			Category:    "dog",
			Image:       "https://placehold.co/200x200/e8d5b7/333?text=🐶+Hills",
		},
		{
			ID:          "dog-3",
			Name:        "Blue Buffalo Wilderness",
			Price:       price("64.99"),
			Description: "High-protein, grain-free recipe with real chicken",
			Category:    "dog",
			Image:       "https://placehold.co/200x200/e8d5b7/333?text=🐕+Blue+Buffalo",
		},
		{
			ID:          "dog-4",
			Name:        "Purina Pro Plan Sport",
			Price:       price("59.99"),
			Description: "Advanced nutrition for active dogs, 30% protein",
			Category:    "dog",
			Image:       "https://placehold.co/200x200/e8d5b7/333?text=🐕+Purina",
		},
		{
			ID:          "cat-1",
			Name:        "Royal Canin Indoor Cat",
			Price:       price("49.99"),
			Description: "Tailored nutrition for indoor cats, hairball control",
			Category:    "cat",
			Image:       "https://placehold.co/200x200/d5e8e8/333?text=🐱+Royal+Canin",
		},
		{
			ID:          "cat-2",
			Name:        "Hill's Science Diet Adult",
			Price:       price("44.99"),
			Description: "Balanced nutrition for adult cats, easy digestion",
			Category:    "cat",
			Image:       "https://placehold.co/200x200/d5e8e8/333?text=🐱+Hills",
		},
		{
			ID:          "cat-3",
			Name:        "Blue Buffalo Tastefuls",
			Price:       price("39.99"),
			Description: "Natural cat food with real salmon, no by-products",
			Category:    "cat",
			Image:       "https://placehold.co/200x200/d5e8e8/333?text=🐱+Blue+Buffalo",
		},
		{
			ID:          "cat-4",
			Name:        "Purina ONE Healthy Kitten",
			Price:       price("34.99"),
			Description: "DHA for brain and vision development in kittens",
			Category:    "cat",
			Image:       "https://placehold.co/200x200/d5e8e8/333?text=🐱+Purina",
		},
	})
}
