package event

import (
	"context"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"goflare.io/storefront/models"
	"goflare.io/storefront/models/enum"
)

type Handler func(context.Context, *models.CartEvent) error

// Manager dispatches cart events to locally registered handlers and, when
// a NATS connection is configured, mirrors them to other storefront
// processes. Local delivery is synchronous and in registration order: the
// storefront processes one UI event at a time, so a mutation's handlers
// run to completion before the next mutation starts.
type Manager struct {
	natsConn *nats.Conn
	handlers map[enum.CartEventType][]Handler
	logger   *zap.Logger
}

// NewManager returns an event manager. natsConn may be nil, in which case
// events are delivered locally only.
func NewManager(natsConn *nats.Conn, logger *zap.Logger) *Manager {
	return &Manager{
		natsConn: natsConn,
		handlers: make(map[enum.CartEventType][]Handler),
		logger:   logger,
	}
}

func (m *Manager) RegisterHandler(eventType enum.CartEventType, handler Handler) {
	m.handlers[eventType] = append(m.handlers[eventType], handler)
}

// Publish delivers the event to every handler registered for its type and
// then mirrors it to NATS. A failing handler is logged and does not stop
// delivery to the remaining handlers.
func (m *Manager) Publish(ctx context.Context, ev *models.CartEvent) {
	m.dispatch(ctx, ev)

	if m.natsConn != nil {
		m.publishRemote(ev)
	}
}

func (m *Manager) dispatch(ctx context.Context, ev *models.CartEvent) {
	for _, handler := range m.handlers[ev.Type] {
		if err := handler(ctx, ev); err != nil {
			m.logger.Error("cart event handler failed",
				zap.String("event_type", string(ev.Type)),
				zap.String("item_id", ev.ItemID),
				zap.Error(err))
		}
	}
}
