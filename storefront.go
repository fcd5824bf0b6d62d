package storefront

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
	"goflare.io/ember"

	"goflare.io/storefront/cart"
	"goflare.io/storefront/catalog"
	"goflare.io/storefront/driver"
	"goflare.io/storefront/event"
	"goflare.io/storefront/models"
	"goflare.io/storefront/models/enum"
	"goflare.io/storefront/view"
)

// Service is the storefront page's cart surface: one operation per UI
// event, each mapped 1:1 to a store or presenter operation.
type Service interface {
	// AddToCart adds one unit of a product; id, name and price come from
	// the clicked product tile.
	AddToCart(ctx context.Context, id, name string, price float64) error

	// AddProduct adds one unit of a catalog product by its stable ID.
	AddProduct(ctx context.Context, productID string) error

	RemoveItem(ctx context.Context, id string) error
	ChangeQuantity(ctx context.Context, id string, delta int) error

	// ClearCart empties the cart. The confirmation prompt is the caller's
	// responsibility; by the time this runs the user already said yes.
	ClearCart(ctx context.Context) error

	// Checkout returns the receipt for a non-empty cart and empties it,
	// or cart.ErrEmptyCart. The cart view is hidden afterwards.
	Checkout(ctx context.Context) (*models.Receipt, error)

	ToggleCart() enum.ViewState
	CartView() *view.CartView
	CountIndicator() string
	Notices() []string
	Catalog() *catalog.Catalog
}

var _ Service = (*service)(nil)

type service struct {
	products  *catalog.Catalog
	store     cart.Store
	presenter *view.Presenter

	eventManager *event.Manager
	logger       *zap.Logger
}

// NewService wires the cart store, presenter and event manager. natsConn
// and cache may be nil; the cart then runs local-only against kv.
func NewService(
	ctx context.Context,
	kv driver.KV,
	cache *ember.Ember,
	natsConn *nats.Conn,
	products *catalog.Catalog,
	currency stripe.Currency,
	logger *zap.Logger,
) Service {
	eventManager := event.NewManager(natsConn, logger)
	store := cart.NewStore(ctx, kv, cache, eventManager, currency, logger)
	presenter := view.NewPresenter(store, eventManager, logger)

	s := &service{
		products:     products,
		store:        store,
		presenter:    presenter,
		eventManager: eventManager,
		logger:       logger,
	}

	logger.Info("Storefront ready",
		zap.Int("catalog_products", products.Len()),
		zap.Int("cart_item_count", store.TotalItemCount()))

	return s
}

func (s *service) AddToCart(ctx context.Context, id, name string, price float64) error {
	return s.store.AddItem(ctx, id, name, price)
}

func (s *service) AddProduct(ctx context.Context, productID string) error {
	product, ok := s.products.Get(productID)
	if !ok {
		return &UnknownProductError{ID: productID}
	}
	return s.store.AddItem(ctx, product.ID, product.Name, product.Price)
}

func (s *service) RemoveItem(ctx context.Context, id string) error {
	return s.store.RemoveItem(ctx, id)
}

func (s *service) ChangeQuantity(ctx context.Context, id string, delta int) error {
	return s.store.ChangeQuantity(ctx, id, delta)
}

func (s *service) ClearCart(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *service) Checkout(ctx context.Context) (*models.Receipt, error) {
	receipt, err := s.store.Checkout(ctx)
	if receipt != nil {
		s.presenter.Hide()
	}
	return receipt, err
}

func (s *service) ToggleCart() enum.ViewState {
	return s.presenter.ToggleVisibility()
}

func (s *service) CartView() *view.CartView {
	return s.presenter.CurrentView()
}

func (s *service) CountIndicator() string {
	return s.presenter.CountIndicator()
}

func (s *service) Notices() []string {
	return s.presenter.Notices()
}

func (s *service) Catalog() *catalog.Catalog {
	return s.products
}
