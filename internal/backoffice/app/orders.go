package app

import (
	"context"
	"fmt"

	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
)

// LoadOrders replaces the local order collection with a fresh read, ordered
// by creation time descending. On error the local collection is untouched;
// this is the only operation that resynchronizes after a missed push.
func (c *Controller) LoadOrders(ctx context.Context) error {
	orders, err := c.gw.Orders.List(ctx)
	if err != nil {
		return &ports.GatewayError{Op: "load orders", Err: err}
	}

	c.mu.Lock()
	c.orders = orders
	view := c.refreshLocked(ctx)
	c.mu.Unlock()

	c.render(view)
	return nil
}

// SetFilter recomputes the displayed order subset. Pure projection over the
// cached collection; the backend is never consulted.
func (c *Controller) SetFilter(ctx context.Context, filter StatusFilter) {
	c.mu.Lock()
	c.filter = filter
	view := c.refreshLocked(ctx)
	c.mu.Unlock()

	c.render(view)
}

// SelectOrder marks an order as the active context for a status update.
func (c *Controller) SelectOrder(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOfOrderLocked(id)
	if idx < 0 {
		return ports.ErrNotFound
	}
	order := c.orders[idx]
	c.selected = &order
	return nil
}

// ClearSelection drops the active order context.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
}

// SetStatus updates the status of the selected order. On success only the
// status field of the local entry changes and the selection is cleared; on
// failure the selection is kept so the operator can retry.
func (c *Controller) SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown order status %q", status)
	}

	c.mu.Lock()
	selected := c.selected
	c.mu.Unlock()

	if selected == nil {
		return ports.ErrNoOrderSelected
	}
	if selected.ID == 0 {
		return ports.ErrOrderMissingID
	}
	if selected.ID != id {
		return ports.ErrNoOrderSelected
	}

	err := c.gw.Orders.UpdateStatus(ctx, id, status)
	if c.metrics != nil {
		c.metrics.RecordStatusUpdate(ctx, string(status), err == nil)
	}
	if err != nil {
		return &ports.GatewayError{Op: "update order status", Err: err}
	}

	c.mu.Lock()
	if idx := c.indexOfOrderLocked(id); idx >= 0 {
		c.orders[idx].Status = status
	}
	c.selected = nil
	view := c.refreshLocked(ctx)
	c.mu.Unlock()

	c.logger.Info("order status updated", "order_id", id, "status", status)
	c.render(view)
	return nil
}

// Orders returns the cached orders passing the given filter. The session's
// sticky filter is left untouched.
func (c *Controller) Orders(filter StatusFilter) []domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Order, 0, len(c.orders))
	for _, o := range c.orders {
		if filter.Matches(o.Status) {
			out = append(out, o)
		}
	}
	return out
}

// PendingOrders returns the derived pending counter.
func (c *Controller) PendingOrders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
