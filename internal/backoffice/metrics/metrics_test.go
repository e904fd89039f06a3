package metrics

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}
	return metrics, reader
}

func TestInitializeMetrics(t *testing.T) {
	metrics, _ := newTestMetrics(t)

	if metrics.ordersReceivedTotal == nil {
		t.Error("ordersReceivedTotal is nil")
	}
	if metrics.statusUpdatesTotal == nil {
		t.Error("statusUpdatesTotal is nil")
	}
	if metrics.pendingOrders == nil {
		t.Error("pendingOrders is nil")
	}
}

func TestRecordStatusUpdate(t *testing.T) {
	t.Run("records updates with result attribute", func(t *testing.T) {
		metrics, reader := newTestMetrics(t)
		ctx := context.Background()

		metrics.RecordStatusUpdate(ctx, "preparing", true)
		metrics.RecordStatusUpdate(ctx, "preparing", false)

		var rm metricdata.ResourceMetrics
		if err := reader.Collect(ctx, &rm); err != nil {
			t.Fatalf("Failed to collect metrics: %v", err)
		}

		found := false
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if m.Name == "order_status_updates_total" {
					found = true
					sum, ok := m.Data.(metricdata.Sum[int64])
					if !ok {
						t.Fatal("Expected Sum[int64] data type")
					}
					if len(sum.DataPoints) != 2 {
						t.Errorf("Expected 2 data points, got %d", len(sum.DataPoints))
					}
				}
			}
		}

		if !found {
			t.Error("order_status_updates_total metric not found")
		}
	})
}

func TestRecordPendingOrders(t *testing.T) {
	t.Run("gauge reflects latest value", func(t *testing.T) {
		metrics, reader := newTestMetrics(t)
		ctx := context.Background()

		metrics.RecordPendingOrders(ctx, 7)
		metrics.RecordPendingOrders(ctx, 3)

		var rm metricdata.ResourceMetrics
		if err := reader.Collect(ctx, &rm); err != nil {
			t.Fatalf("Failed to collect metrics: %v", err)
		}

		found := false
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if m.Name == "pending_orders" {
					found = true
					gauge, ok := m.Data.(metricdata.Gauge[int64])
					if !ok {
						t.Fatal("Expected Gauge[int64] data type")
					}
					if len(gauge.DataPoints) != 1 {
						t.Fatalf("Expected 1 data point, got %d", len(gauge.DataPoints))
					}
					if gauge.DataPoints[0].Value != 3 {
						t.Errorf("Expected gauge value 3, got %d", gauge.DataPoints[0].Value)
					}
				}
			}
		}

		if !found {
			t.Error("pending_orders metric not found")
		}
	})
}
