package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersReceivedTotal metric.Int64Counter
	statusUpdatesTotal  metric.Int64Counter
	pendingOrders       metric.Int64Gauge
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.ordersReceivedTotal, err = meter.Int64Counter(
		"orders_received_total",
		metric.WithDescription("Total number of orders received over the change feed"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_received_total counter: %w", err)
	}

	m.statusUpdatesTotal, err = meter.Int64Counter(
		"order_status_updates_total",
		metric.WithDescription("Total number of operator status updates"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_status_updates_total counter: %w", err)
	}

	m.pendingOrders, err = meter.Int64Gauge(
		"pending_orders",
		metric.WithDescription("Orders currently in pending status"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create pending_orders gauge: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordOrderReceived(ctx context.Context) {
	m.ordersReceivedTotal.Add(ctx, 1)
}

func (m *Metrics) RecordStatusUpdate(ctx context.Context, status string, success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	m.statusUpdatesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("result", result),
	))
}

func (m *Metrics) RecordPendingOrders(ctx context.Context, count int) {
	m.pendingOrders.Record(ctx, int64(count))
}
