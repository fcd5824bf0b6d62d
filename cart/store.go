package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
	"goflare.io/ember"

	"goflare.io/storefront/driver"
	"goflare.io/storefront/event"
	"goflare.io/storefront/models"
	"goflare.io/storefront/models/enum"
)

// snapshotKey is the well-known key the serialized cart lives under in the
// durable store.
const snapshotKey = "cart"

const (
	cacheKey = "cart:snapshot"
	cacheTTL = 30 * time.Minute
)

var (
	// ErrEmptyCart is returned by Checkout when there is nothing to buy.
	// No mutation and no persistence happen in that case.
	ErrEmptyCart = errors.New("cart: cart is empty")

	// ErrSnapshotWrite wraps a failed snapshot write. The mutation is
	// already applied in memory; only durability across reloads is at
	// risk, so callers may treat it as a warning.
	ErrSnapshotWrite = errors.New("cart: snapshot write failed")
)

var _ Store = (*store)(nil)

// Store is the single source of truth for cart contents. After any
// operation returns, the in-memory list and the persisted snapshot agree,
// except when the returned error wraps ErrSnapshotWrite.
type Store interface {
	AddItem(ctx context.Context, id, name string, price float64) error
	RemoveItem(ctx context.Context, id string) error
	ChangeQuantity(ctx context.Context, id string, delta int) error
	Clear(ctx context.Context) error
	Checkout(ctx context.Context) (*models.Receipt, error)

	TotalItemCount() int
	Total() float64
	Items() []*models.LineItem
	Currency() stripe.Currency
}

type store struct {
	cart   *models.Cart
	kv     driver.KV
	cache  *ember.Ember
	events *event.Manager
	logger *zap.Logger
}

// NewStore loads the persisted snapshot and returns a ready store. An
// absent or malformed snapshot yields an empty cart, never an error.
// cache may be nil to skip the read-through snapshot cache.
func NewStore(ctx context.Context, kv driver.KV, cache *ember.Ember, events *event.Manager, currency stripe.Currency, logger *zap.Logger) Store {
	s := &store{
		cart:   models.NewCart(currency),
		kv:     kv,
		cache:  cache,
		events: events,
		logger: logger,
	}
	s.load(ctx)
	return s
}

func (s *store) load(ctx context.Context) {
	if s.cache != nil {
		var items []*models.LineItem
		found, err := s.cache.Get(ctx, cacheKey, &items)
		if err != nil {
			s.logger.Warn("Failed to get cart snapshot from cache", zap.Error(err))
		}
		if found {
			s.cart.Items = items
			return
		}
	}

	data, err := s.kv.Get(ctx, snapshotKey)
	if errors.Is(err, driver.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("Failed to read cart snapshot, starting empty", zap.Error(err))
		return
	}

	if err := s.cart.UnmarshalSnapshot(data); err != nil {
		s.logger.Warn("Malformed cart snapshot, starting empty", zap.Error(err))
		s.cart.Clear()
		return
	}

	s.logger.Info("Cart snapshot loaded",
		zap.Int("line_items", len(s.cart.Items)),
		zap.Int("item_count", s.cart.TotalItemCount()))
}

// persist writes the snapshot. On failure the in-memory cart keeps the
// mutation and the error wraps ErrSnapshotWrite.
func (s *store) persist(ctx context.Context) error {
	data, err := s.cart.MarshalSnapshot()
	if err != nil {
		s.logger.Error("Failed to marshal cart snapshot", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSnapshotWrite, err)
	}

	if err := s.kv.Set(ctx, snapshotKey, data); err != nil {
		s.logger.Warn("Failed to persist cart snapshot, next reload may lose this change", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSnapshotWrite, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, s.cart.Items, cacheTTL); err != nil {
			s.logger.Warn("Failed to cache cart snapshot", zap.Error(err))
		}
	}

	return nil
}

func (s *store) publish(ctx context.Context, eventType enum.CartEventType, itemID, message string) {
	s.events.Publish(ctx, &models.CartEvent{
		Type:      eventType,
		ItemID:    itemID,
		Message:   message,
		ItemCount: s.cart.TotalItemCount(),
		Total:     s.cart.Total(),
	})
}

func (s *store) AddItem(ctx context.Context, id, name string, price float64) error {
	item := s.cart.Upsert(id, name, price)

	s.logger.Info("Item added to cart",
		zap.String("item_id", id),
		zap.Int("quantity", item.Quantity))

	err := s.persist(ctx)
	s.publish(ctx, enum.CartEventItemAdded, id, fmt.Sprintf("%s added to cart!", name))
	return err
}

func (s *store) RemoveItem(ctx context.Context, id string) error {
	if s.cart.Remove(id) {
		s.logger.Info("Item removed from cart", zap.String("item_id", id))
	}

	err := s.persist(ctx)
	s.publish(ctx, enum.CartEventItemRemoved, id, "")
	return err
}

func (s *store) ChangeQuantity(ctx context.Context, id string, delta int) error {
	item := s.cart.Find(id)
	if item == nil {
		return nil
	}

	item.Quantity += delta
	eventType := enum.CartEventQuantityChanged
	if item.Quantity <= 0 {
		s.cart.Remove(id)
		eventType = enum.CartEventItemRemoved
	}

	err := s.persist(ctx)
	s.publish(ctx, eventType, id, "")
	return err
}

func (s *store) Clear(ctx context.Context) error {
	s.cart.Clear()

	err := s.persist(ctx)
	s.publish(ctx, enum.CartEventCleared, "", "")
	return err
}

func (s *store) Checkout(ctx context.Context) (*models.Receipt, error) {
	if s.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	receipt := &models.Receipt{
		Total:    s.cart.Total(),
		Currency: s.cart.Currency,
		Message:  fmt.Sprintf("Order for $%.2f placed!\nThank you for your purchase!", s.cart.Total()),
		PlacedAt: time.Now(),
	}

	s.cart.Clear()

	s.logger.Info("Checkout completed", zap.Float64("total", receipt.Total))

	err := s.persist(ctx)
	s.publish(ctx, enum.CartEventCheckedOut, "", receipt.Message)
	return receipt, err
}

func (s *store) TotalItemCount() int {
	return s.cart.TotalItemCount()
}

func (s *store) Total() float64 {
	return s.cart.Total()
}

// Items returns the live line-item list in cart order. Callers must treat
// it as read-only; the store owns the cart.
func (s *store) Items() []*models.LineItem {
	return s.cart.Items
}

func (s *store) Currency() stripe.Currency {
	return s.cart.Currency
}
