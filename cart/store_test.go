package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"goflare.io/storefront/driver"
	"goflare.io/storefront/event"
	"goflare.io/storefront/models"
	"goflare.io/storefront/models/enum"
)

func newTestStore(t *testing.T) (Store, *driver.MemoryKV) {
	t.Helper()
	kv := driver.NewMemoryKV()
	logger := zap.NewNop()
	return NewStore(context.Background(), kv, nil, event.NewManager(nil, logger), stripe.CurrencyUSD, logger), kv
}

func TestAddItemMergesDuplicateIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))
	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "mug-1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, s.TotalItemCount())
}

func TestTotalItemCountTracksQuantities(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sum := func() int {
		var n int
		for _, item := range s.Items() {
			n += item.Quantity
		}
		return n
	}

	steps := []func() error{
		func() error { return s.AddItem(ctx, "mug-1", "Mug", 9.99) },
		func() error { return s.AddItem(ctx, "tee-2", "Tee", 19.50) },
		func() error { return s.AddItem(ctx, "mug-1", "Mug", 9.99) },
		func() error { return s.ChangeQuantity(ctx, "tee-2", 3) },
		func() error { return s.ChangeQuantity(ctx, "mug-1", -1) },
		func() error { return s.RemoveItem(ctx, "tee-2") },
		func() error { return s.AddItem(ctx, "cap-3", "Cap", 12.00) },
		func() error { return s.Clear(ctx) },
	}

	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		assert.Equal(t, sum(), s.TotalItemCount(), "step %d", i)
	}
}

func TestChangeQuantityRemovesAtZero(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))
	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))
	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))

	require.NoError(t, s.ChangeQuantity(ctx, "mug-1", -3))

	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalItemCount())
}

func TestChangeQuantityBelowZeroRemoves(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))
	require.NoError(t, s.ChangeQuantity(ctx, "mug-1", -5))

	assert.Empty(t, s.Items())
	assert.Equal(t, 0.0, s.Total())
}

func TestChangeQuantityUnknownIDNoop(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))
	require.NoError(t, s.ChangeQuantity(ctx, "ghost", 4))

	require.Len(t, s.Items(), 1)
	assert.Equal(t, 1, s.TotalItemCount())
}

func TestRemoveItemUnknownIDNoop(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))
	require.NoError(t, s.RemoveItem(ctx, "ghost"))

	require.Len(t, s.Items(), 1)
	assert.Equal(t, "mug-1", s.Items()[0].ID)
}

func TestCheckout(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))
	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))
	require.NoError(t, s.AddItem(ctx, "tee-2", "Tee", 19.50))

	receipt, err := s.Checkout(ctx)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.InDelta(t, 39.48, receipt.Total, 0.001)
	assert.Equal(t, stripe.CurrencyUSD, receipt.Currency)
	assert.False(t, receipt.PlacedAt.IsZero())

	assert.Empty(t, s.Items())
	assert.Equal(t, 0.0, s.Total())
}

func TestCheckoutEmptyCart(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	receipt, err := s.Checkout(ctx)
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, receipt)

	// No mutation, no persistence.
	_, err = kv.Get(ctx, snapshotKey)
	assert.ErrorIs(t, err, driver.ErrNotFound)
}

func TestSnapshotRoundTrip(t *testing.T) {
	kv := driver.NewMemoryKV()
	logger := zap.NewNop()
	ctx := context.Background()

	s := NewStore(ctx, kv, nil, event.NewManager(nil, logger), stripe.CurrencyUSD, logger)
	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))
	require.NoError(t, s.AddItem(ctx, "tee-2", "Tee", 19.50))
	require.NoError(t, s.AddItem(ctx, "tee-2", "Tee", 19.50))

	reloaded := NewStore(ctx, kv, nil, event.NewManager(nil, logger), stripe.CurrencyUSD, logger)

	want := s.Items()
	got := reloaded.Items()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, *want[i], *got[i])
	}
}

func TestLoadMalformedSnapshotStartsEmpty(t *testing.T) {
	kv := driver.NewMemoryKV()
	logger := zap.NewNop()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, snapshotKey, []byte("{not json")))

	s := NewStore(ctx, kv, nil, event.NewManager(nil, logger), stripe.CurrencyUSD, logger)
	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalItemCount())
}

func TestLoadInvalidSnapshotStartsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
	}{
		{"null entry", `[null]`},
		{"zero quantity", `[{"id":"x","name":"X","price":1,"quantity":0}]`},
		{"negative quantity", `[{"id":"x","name":"X","price":1,"quantity":-2}]`},
		{"missing id", `[{"name":"X","price":1,"quantity":1}]`},
		{"duplicate id", `[{"id":"x","name":"X","price":1,"quantity":1},{"id":"x","name":"X","price":1,"quantity":1}]`},
		{"not an array", `{"id":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := driver.NewMemoryKV()
			logger := zap.NewNop()
			ctx := context.Background()

			require.NoError(t, kv.Set(ctx, snapshotKey, []byte(tt.snapshot)))

			s := NewStore(ctx, kv, nil, event.NewManager(nil, logger), stripe.CurrencyUSD, logger)
			assert.Empty(t, s.Items())
			assert.Zero(t, s.TotalItemCount())
			assert.Equal(t, 0.0, s.Total())
		})
	}
}

func TestMugExample(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))
	assert.Equal(t, 1, s.TotalItemCount())
	assert.InDelta(t, 9.99, s.Total(), 0.001)

	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 2, s.TotalItemCount())
	assert.InDelta(t, 19.98, s.Total(), 0.001)

	require.NoError(t, s.ChangeQuantity(ctx, "mug-1", -5))
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItemCount())
	assert.Equal(t, 0.0, s.Total())
}

func TestAddItemPublishesMessage(t *testing.T) {
	kv := driver.NewMemoryKV()
	logger := zap.NewNop()
	events := event.NewManager(nil, logger)
	ctx := context.Background()

	var got *models.CartEvent
	events.RegisterHandler(enum.CartEventItemAdded, func(_ context.Context, ev *models.CartEvent) error {
		got = ev
		return nil
	})

	s := NewStore(ctx, kv, nil, events, stripe.CurrencyUSD, logger)
	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))

	require.NotNil(t, got)
	assert.Equal(t, "Mug added to cart!", got.Message)
	assert.Equal(t, "mug-1", got.ItemID)
	assert.Equal(t, 1, got.ItemCount)
	assert.InDelta(t, 9.99, got.Total, 0.001)
}

func TestRemoveItemPublishesEvent(t *testing.T) {
	kv := driver.NewMemoryKV()
	logger := zap.NewNop()
	events := event.NewManager(nil, logger)
	ctx := context.Background()

	var got []*models.CartEvent
	events.RegisterHandler(enum.CartEventItemRemoved, func(_ context.Context, ev *models.CartEvent) error {
		got = append(got, ev)
		return nil
	})

	s := NewStore(ctx, kv, nil, events, stripe.CurrencyUSD, logger)
	require.NoError(t, s.AddItem(ctx, "mug-1", "Mug", 9.99))

	require.NoError(t, s.RemoveItem(ctx, "mug-1"))
	require.Len(t, got, 1)
	assert.Equal(t, "mug-1", got[0].ItemID)
	assert.Equal(t, 0, got[0].ItemCount)

	// Removing an absent id still persists and publishes (idempotent
	// removal), with the cart unchanged.
	require.NoError(t, s.RemoveItem(ctx, "mug-1"))
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[1].ItemCount)
}

type failingKV struct {
	inner driver.KV
}

func (f *failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	return f.inner.Get(ctx, key)
}

func (f *failingKV) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func (f *failingKV) Delete(ctx context.Context, key string) error {
	return f.inner.Delete(ctx, key)
}

func TestWriteFailureStillMutatesInMemory(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	s := NewStore(ctx, &failingKV{inner: driver.NewMemoryKV()}, nil, event.NewManager(nil, logger), stripe.CurrencyUSD, logger)

	err := s.AddItem(ctx, "mug-1", "Mug", 9.99)
	require.ErrorIs(t, err, ErrSnapshotWrite)

	// The session still behaves correctly; only durability is at risk.
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 1, s.TotalItemCount())

	receipt, err := s.Checkout(ctx)
	require.ErrorIs(t, err, ErrSnapshotWrite)
	require.NotNil(t, receipt)
	assert.InDelta(t, 9.99, receipt.Total, 0.001)
	assert.Empty(t, s.Items())
}
