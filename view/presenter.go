package view

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"goflare.io/storefront/cart"
	"goflare.io/storefront/event"
	"goflare.io/storefront/models"
	"goflare.io/storefront/models/enum"
)

const emptyCartPlaceholder = "Your cart is empty"

// Action is a triggerable row control. It captures its typed parameters
// (item id, delta) at render time, so nothing is round-tripped through
// strings.
type Action func(ctx context.Context) error

// CartRow is one rendered line item. Amounts are pre-formatted to two
// decimals for display.
type CartRow struct {
	ID        string
	Name      string
	UnitPrice string
	Quantity  int
	Subtotal  string

	Decrement Action
	Increment Action
	Remove    Action
}

// CartView is the rendered cart: either the empty placeholder or one row
// per line item in cart order, plus the grand total.
type CartView struct {
	Empty       bool
	Placeholder string
	Rows        []CartRow
	Total       string
}

// Presenter translates store state into the cart view and the count
// indicator. It holds only a read view of the cart and mutates it solely
// by forwarding row actions to store operations.
type Presenter struct {
	store     cart.Store
	notices   *Notices
	state     enum.ViewState
	current   *CartView
	indicator string
	logger    *zap.Logger
}

// NewPresenter registers for every cart event so the indicator is
// recomputed after each mutation. The view starts hidden.
func NewPresenter(store cart.Store, events *event.Manager, logger *zap.Logger) *Presenter {
	p := &Presenter{
		store:   store,
		notices: NewNotices(),
		state:   enum.ViewStateHidden,
		logger:  logger,
	}
	p.indicator = p.RenderCountIndicator()

	for _, eventType := range enum.CartEventTypes() {
		events.RegisterHandler(eventType, p.onCartChanged)
	}

	return p
}

func (p *Presenter) onCartChanged(_ context.Context, ev *models.CartEvent) error {
	p.indicator = p.RenderCountIndicator()

	if ev.Message != "" {
		p.notices.Push(ev.Message)
	}

	// The hidden view is rebuilt on the next toggle anyway.
	if p.state == enum.ViewStateVisible {
		p.current = p.RenderCartView()
	}

	return nil
}

// RenderCartView builds a fresh view-model from current store state.
func (p *Presenter) RenderCartView() *CartView {
	items := p.store.Items()
	if len(items) == 0 {
		return &CartView{
			Empty:       true,
			Placeholder: emptyCartPlaceholder,
			Total:       formatAmount(0),
		}
	}

	rows := make([]CartRow, 0, len(items))
	for _, item := range items {
		id := item.ID
		rows = append(rows, CartRow{
			ID:        id,
			Name:      item.Name,
			UnitPrice: formatAmount(item.Price),
			Quantity:  item.Quantity,
			Subtotal:  formatAmount(item.Subtotal()),
			Decrement: func(ctx context.Context) error { return p.store.ChangeQuantity(ctx, id, -1) },
			Increment: func(ctx context.Context) error { return p.store.ChangeQuantity(ctx, id, +1) },
			Remove:    func(ctx context.Context) error { return p.store.RemoveItem(ctx, id) },
		})
	}

	return &CartView{
		Rows:  rows,
		Total: formatAmount(p.store.Total()),
	}
}

// RenderCountIndicator returns the cart glyph, with the total item count in
// parentheses when the cart is not empty.
func (p *Presenter) RenderCountIndicator() string {
	count := p.store.TotalItemCount()
	if count > 0 {
		return fmt.Sprintf("🛒(%d)", count)
	}
	return "🛒"
}

// ToggleVisibility flips the view between shown and hidden and returns the
// new state. Entering the visible state always re-renders, since the cart
// may have changed while hidden.
func (p *Presenter) ToggleVisibility() enum.ViewState {
	if p.state == enum.ViewStateVisible {
		p.state = enum.ViewStateHidden
		return p.state
	}

	p.state = enum.ViewStateVisible
	p.current = p.RenderCartView()
	return p.state
}

// Hide collapses the view without toggling, used after checkout.
func (p *Presenter) Hide() {
	p.state = enum.ViewStateHidden
}

func (p *Presenter) State() enum.ViewState {
	return p.state
}

// CurrentView returns the view rendered when the cart was last shown or
// mutated while visible; nil while hidden and never shown.
func (p *Presenter) CurrentView() *CartView {
	return p.current
}

// CountIndicator returns the indicator as of the last mutation.
func (p *Presenter) CountIndicator() string {
	return p.indicator
}

// Notices returns the not-yet-expired transient messages.
func (p *Presenter) Notices() []string {
	return p.notices.Active()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
