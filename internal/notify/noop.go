package notify

import (
	"context"
	"log/slog"

	"github.com/dineview/backoffice/internal/backoffice/domain"
)

// NoopNotifier logs notifications without sending them to a broker. Useful
// for local dev before wiring RabbitMQ.
type NoopNotifier struct{}

// NewNoopNotifier returns a new no-op notifier.
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) OrderReceived(_ context.Context, order domain.Order) error {
	slog.Debug("notification::order_received", "order_id", order.ID)
	return nil
}
