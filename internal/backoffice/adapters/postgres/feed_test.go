package postgres

import (
	"testing"

	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
)

func TestDecodeNotification(t *testing.T) {
	t.Run("insert", func(t *testing.T) {
		payload := []byte(`{
			"op": "INSERT",
			"record": {
				"id": 7,
				"status": "pending",
				"products": [{"name": "Margherita", "price": 9.5, "quantity": 2}],
				"total_price": 19.0,
				"table_number": 4,
				"created_at": "2026-08-30T12:00:00Z"
			}
		}`)

		event, err := decodeNotification(payload)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		inserted, ok := event.(ports.OrderInserted)
		if !ok {
			t.Fatalf("expected OrderInserted, got %T", event)
		}
		if inserted.Order.ID != 7 {
			t.Errorf("expected id 7, got %d", inserted.Order.ID)
		}
		if inserted.Order.Status != domain.StatusPending {
			t.Errorf("expected pending, got %s", inserted.Order.Status)
		}
		if len(inserted.Order.Items) != 1 || inserted.Order.Items[0].Quantity != 2 {
			t.Errorf("unexpected items %+v", inserted.Order.Items)
		}
		if inserted.Order.TableNumber == nil || *inserted.Order.TableNumber != 4 {
			t.Errorf("unexpected table number %v", inserted.Order.TableNumber)
		}
	})

	t.Run("update", func(t *testing.T) {
		payload := []byte(`{"op": "UPDATE", "record": {"id": 7, "status": "completed", "total_price": 19.0, "created_at": "2026-08-30T12:00:00Z"}}`)

		event, err := decodeNotification(payload)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		updated, ok := event.(ports.OrderUpdated)
		if !ok {
			t.Fatalf("expected OrderUpdated, got %T", event)
		}
		if updated.Order.Status != domain.StatusCompleted {
			t.Errorf("expected completed, got %s", updated.Order.Status)
		}
	})

	t.Run("unknown operation", func(t *testing.T) {
		if _, err := decodeNotification([]byte(`{"op": "DELETE", "record": {}}`)); err == nil {
			t.Error("expected error for unknown operation")
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		if _, err := decodeNotification([]byte(`not json`)); err == nil {
			t.Error("expected error for malformed payload")
		}
	})
}
