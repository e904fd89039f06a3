package adapters

import (
	"context"
	"time"

	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
	"github.com/dineview/backoffice/internal/database"
	"github.com/dineview/backoffice/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableOrderStore struct {
	store   ports.OrderStore
	metrics *database.Metrics
}

func NewObservableOrderStore(store ports.OrderStore, metrics *database.Metrics) *ObservableOrderStore {
	return &ObservableOrderStore{
		store:   store,
		metrics: metrics,
	}
}

func (s *ObservableOrderStore) List(ctx context.Context) ([]domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderStore.List")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("operation", "list"),
	)

	start := time.Now()
	orders, err := s.store.List(ctx)
	s.metrics.RecordQuery(ctx, "list_orders", time.Since(start), err)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(orders)))
	telemetry.SetSpanSuccess(span)
	return orders, nil
}

func (s *ObservableOrderStore) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "OrderStore.UpdateStatus")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.id", id),
		attribute.String("order.new_status", string(status)),
		attribute.String("operation", "update_status"),
	)

	start := time.Now()
	err := s.store.UpdateStatus(ctx, id, status)
	s.metrics.RecordQuery(ctx, "update_order_status", time.Since(start), err)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
