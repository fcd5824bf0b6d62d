package event

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"goflare.io/storefront/models"
)

const subjectPrefix = "storefront.cart.event."

// publishRemote mirrors a cart event to NATS, fire-and-forget. Cart
// correctness never depends on the mirror; a failed publish is a warning.
func (m *Manager) publishRemote(ev *models.CartEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		m.logger.Error("Failed to marshal cart event", zap.Error(err))
		return
	}

	if err := m.natsConn.Publish(subjectPrefix+string(ev.Type), data); err != nil {
		m.logger.Warn("Failed to mirror cart event to NATS",
			zap.String("event_type", string(ev.Type)),
			zap.Error(err))
	}
}

// SubscribeRemote feeds cart events published by other storefront
// processes into the local handlers, refreshing the local views. Counts
// and totals rendered afterwards still come from the local store, not
// from the remote event payload.
func (m *Manager) SubscribeRemote() error {
	_, err := m.natsConn.Subscribe(subjectPrefix+">", func(msg *nats.Msg) {
		var ev models.CartEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			m.logger.Error("Failed to unmarshal cart event", zap.Error(err))
			return
		}

		m.dispatch(context.Background(), &ev)
	})

	return err
}
