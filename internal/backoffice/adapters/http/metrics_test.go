package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRoutePattern(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/v1/dashboard", "/v1/dashboard"},
		{"/v1/orders", "/v1/orders"},
		{"/v1/orders/filter", "/v1/orders/filter"},
		{"/v1/orders/42/status", "/v1/orders/{id}/status"},
		{"/v1/products/17", "/v1/products/{id}"},
		{"/v1/categories/desserts", "/v1/categories/{key}"},
		{"/v1/categories/desserts/position", "/v1/categories/{key}/position"},
		{"/healthz", "/healthz"},
	}

	for _, tc := range cases {
		if got := RoutePattern(tc.path); got != tc.want {
			t.Errorf("RoutePattern(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestWithMetricsCollapsesEntityRoutes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	handler := WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), metrics)
	server := httptest.NewServer(handler)
	defer server.Close()

	for _, path := range []string{"/v1/orders/1/status", "/v1/orders/2/status"} {
		resp, err := http.Post(server.URL+path, "application/json", nil)
		if err != nil {
			t.Fatalf("request %s: %v", path, err)
		}
		resp.Body.Close()
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}

	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "console_http_requests_total" {
				continue
			}
			found = true

			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatal("expected Sum[int64] data type")
			}
			// Both requests share the normalized route, so one series.
			if len(sum.DataPoints) != 1 {
				t.Fatalf("expected 1 data point, got %d", len(sum.DataPoints))
			}

			dp := sum.DataPoints[0]
			if dp.Value != 2 {
				t.Errorf("expected count 2, got %d", dp.Value)
			}
			route, ok := dp.Attributes.Value(attribute.Key("route"))
			if !ok || route.AsString() != "/v1/orders/{id}/status" {
				t.Errorf("unexpected route attribute %v", route)
			}
		}
	}

	if !found {
		t.Error("console_http_requests_total metric not found")
	}
}
