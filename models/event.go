package models

import (
	"goflare.io/storefront/models/enum"
)

// CartEvent is published after every completed cart mutation. ItemCount and
// Total reflect the cart state after the mutation was applied.
type CartEvent struct {
	Type      enum.CartEventType `json:"type"`
	ItemID    string             `json:"item_id,omitempty"`
	Message   string             `json:"message,omitempty"`
	ItemCount int                `json:"item_count"`
	Total     float64            `json:"total"`
}
