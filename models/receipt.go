package models

import (
	"time"

	"github.com/stripe/stripe-go/v79"
)

// Receipt is the result of a successful checkout. The cart is already
// empty by the time the caller sees it.
type Receipt struct {
	Total    float64         `json:"total"`
	Currency stripe.Currency `json:"currency"`
	Message  string          `json:"message"`
	PlacedAt time.Time       `json:"placed_at"`
}
