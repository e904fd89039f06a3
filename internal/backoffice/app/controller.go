package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/metrics"
	"github.com/dineview/backoffice/internal/backoffice/ports"
)

// StatusFilter narrows the displayed order subset.
type StatusFilter string

// FilterAll shows every order regardless of status.
const FilterAll StatusFilter = "all"

// Matches reports whether an order status passes the filter.
func (f StatusFilter) Matches(s domain.OrderStatus) bool {
	return f == FilterAll || f == "" || string(f) == string(s)
}

// View is the derived state handed to the render callback after every
// mutation: the filtered order subset, both catalogs and the pending counter.
type View struct {
	Orders        []domain.Order    `json:"orders"`
	Products      []domain.Product  `json:"products"`
	Categories    []domain.Category `json:"categories"`
	PendingOrders int               `json:"pending_orders"`
	Filter        StatusFilter      `json:"filter"`
}

// RenderFunc receives the new view whenever controller state changes.
type RenderFunc func(View)

// Controller owns all session-scoped state of the admin console: the cached
// order, product and category collections, the order filter, the current
// selection and the pending counter. All mutations are serialized behind one
// mutex; pushed feed events enter through Apply.
type Controller struct {
	gw       ports.Gateway
	notifier ports.Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	render   RenderFunc

	mu         sync.Mutex
	state      SessionState
	session    *ports.Session
	sub        ports.Subscription
	orders     []domain.Order
	products   []domain.Product
	categories []domain.Category
	filter     StatusFilter
	selected   *domain.Order
	pending    int
}

// Option customizes a Controller.
type Option func(*Controller)

// WithRenderFunc installs the view refresh callback.
func WithRenderFunc(fn RenderFunc) Option {
	return func(c *Controller) {
		c.render = fn
	}
}

// New wires a Controller. The metrics handle may be nil when telemetry is
// disabled.
func New(gw ports.Gateway, notifier ports.Notifier, logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Controller {
	c := &Controller{
		gw:       gw,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		render:   func(View) {},
		state:    StateUnauthenticated,
		filter:   FilterAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply reconciles one pushed change event with the local collections.
// Updates for identifiers not yet cached are dropped: they can only arrive
// while the initial load is still in flight, and the manual reload path is
// the documented resync mechanism.
func (c *Controller) Apply(ctx context.Context, event ports.Event) {
	switch e := event.(type) {
	case ports.OrderInserted:
		c.mu.Lock()
		c.orders = append([]domain.Order{e.Order}, c.orders...)
		view := c.refreshLocked(ctx)
		c.mu.Unlock()

		if c.metrics != nil {
			c.metrics.RecordOrderReceived(ctx)
		}
		c.notifyOrderReceived(ctx, e.Order)
		c.render(view)

	case ports.OrderUpdated:
		c.mu.Lock()
		idx := c.indexOfOrderLocked(e.Order.ID)
		if idx < 0 {
			c.mu.Unlock()
			c.logger.Debug("dropping update for unknown order", "order_id", e.Order.ID)
			return
		}
		c.orders[idx] = e.Order
		view := c.refreshLocked(ctx)
		c.mu.Unlock()

		c.render(view)
	}
}

// Snapshot returns the current view without mutating anything.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// notifyOrderReceived fans out the new-order side effects. Best-effort:
// failures are logged and swallowed.
func (c *Controller) notifyOrderReceived(ctx context.Context, order domain.Order) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.OrderReceived(ctx, order); err != nil {
		c.logger.Warn("order notification failed", "order_id", order.ID, "error", err)
	}
}

// refreshLocked recomputes derived state after a mutation and builds the
// view to render. Callers must hold c.mu.
func (c *Controller) refreshLocked(ctx context.Context) View {
	pending := 0
	for _, o := range c.orders {
		if o.Status == domain.StatusPending {
			pending++
		}
	}
	c.pending = pending
	if c.metrics != nil {
		c.metrics.RecordPendingOrders(ctx, pending)
	}
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	filtered := make([]domain.Order, 0, len(c.orders))
	for _, o := range c.orders {
		if c.filter.Matches(o.Status) {
			filtered = append(filtered, o)
		}
	}

	products := make([]domain.Product, len(c.products))
	copy(products, c.products)
	categories := make([]domain.Category, len(c.categories))
	copy(categories, c.categories)

	return View{
		Orders:        filtered,
		Products:      products,
		Categories:    categories,
		PendingOrders: c.pending,
		Filter:        c.filter,
	}
}

func (c *Controller) indexOfOrderLocked(id int64) int {
	for i, o := range c.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
