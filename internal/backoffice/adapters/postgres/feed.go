package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderEventsChannel = "order_events"

// Feed streams order change events using LISTEN/NOTIFY. A trigger on the
// orders table publishes one JSON payload per insert or update; each
// subscription holds a dedicated connection for the duration of the stream.
type Feed struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewFeed(pool *pgxpool.Pool, logger *slog.Logger) *Feed {
	return &Feed{pool: pool, logger: logger}
}

func (f *Feed) Subscribe(ctx context.Context) (ports.Subscription, error) {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire feed connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+orderEventsChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen on %s: %w", orderEventsChannel, err)
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		events: make(chan ports.Event, 32),
		cancel: cancel,
	}

	go f.stream(streamCtx, conn, sub)
	return sub, nil
}

func (f *Feed) stream(ctx context.Context, conn *pgxpool.Conn, sub *subscription) {
	defer close(sub.events)
	defer conn.Release()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			f.logger.Error("change feed interrupted", "error", err)
			return
		}

		event, err := decodeNotification([]byte(notification.Payload))
		if err != nil {
			f.logger.Warn("dropping malformed feed payload", "error", err)
			continue
		}

		select {
		case sub.events <- event:
		case <-ctx.Done():
			return
		}
	}
}

// notificationPayload is the trigger's wire format.
type notificationPayload struct {
	Op     string       `json:"op"`
	Record domain.Order `json:"record"`
}

func decodeNotification(payload []byte) (ports.Event, error) {
	var p notificationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	switch p.Op {
	case "INSERT":
		return ports.OrderInserted{Order: p.Record}, nil
	case "UPDATE":
		return ports.OrderUpdated{Order: p.Record}, nil
	default:
		return nil, fmt.Errorf("unknown feed operation %q", p.Op)
	}
}

type subscription struct {
	events chan ports.Event
	cancel context.CancelFunc
	once   sync.Once
}

func (s *subscription) Events() <-chan ports.Event {
	return s.events
}

func (s *subscription) Unsubscribe() error {
	s.once.Do(s.cancel)
	return nil
}
