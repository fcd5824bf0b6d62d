package models

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
)

// LineItem 代表購物車中的單個商品項目
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns unit price times quantity for this line.
func (li *LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

// Cart 代表購物車
// Items are ordered by insertion and keyed by line-item ID; IDs are unique
// within the cart. A LineItem never exists with Quantity < 1.
type Cart struct {
	Currency stripe.Currency `json:"currency"`
	Items    []*LineItem     `json:"items"`
}

func NewCart(currency stripe.Currency) *Cart {
	return &Cart{Currency: currency}
}

// Find returns the line item with the given ID, or nil.
func (c *Cart) Find(id string) *LineItem {
	for _, item := range c.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Upsert increments the quantity of the line item with the given ID, or
// appends a new line item with quantity 1. The affected item is returned.
func (c *Cart) Upsert(id, name string, price float64) *LineItem {
	if item := c.Find(id); item != nil {
		item.Quantity++
		return item
	}

	item := &LineItem{
		ID:       id,
		Name:     name,
		Price:    price,
		Quantity: 1,
	}
	c.Items = append(c.Items, item)
	return item
}

// Remove deletes the line item with the given ID, preserving the order of
// the remaining items. It reports whether an item was removed.
func (c *Cart) Remove(id string) bool {
	for i, item := range c.Items {
		if item.ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalItemCount returns the sum of all line-item quantities.
func (c *Cart) TotalItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Total returns the sum of price times quantity over all line items.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// MarshalSnapshot serializes the cart contents as a plain JSON array of
// line items, the wire form stored under the snapshot key.
func (c *Cart) MarshalSnapshot() ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []*LineItem{}
	}
	return json.Marshal(items)
}

// UnmarshalSnapshot replaces the cart contents with the items decoded from
// a snapshot previously produced by MarshalSnapshot. A snapshot that
// decodes but breaks the cart invariants (null entries, missing IDs,
// quantities below 1, duplicate IDs) is rejected without touching the
// cart, so callers can fall back to empty.
func (c *Cart) UnmarshalSnapshot(data []byte) error {
	var items []*LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item == nil {
			return fmt.Errorf("line item %d is null", i)
		}
		if item.ID == "" {
			return fmt.Errorf("line item %d has no id", i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("line item %q has quantity %d", item.ID, item.Quantity)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate line item id %q", item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	c.Items = items
	return nil
}
