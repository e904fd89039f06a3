package app

import (
	"context"
	"errors"
)

// SessionState tracks the operator session lifecycle.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthenticating
	StateAuthenticated
)

// ErrLoginInProgress rejects a second login attempt while one is in flight.
var ErrLoginInProgress = errors.New("login already in progress")

// State returns the current session state.
func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CheckSession asks the backend for an existing session and adopts it.
// It never fails fatally: any gateway error is treated as "no session".
func (c *Controller) CheckSession(ctx context.Context) bool {
	session, err := c.gw.Auth.Session(ctx)
	if err != nil {
		c.logger.Warn("session check failed", "error", err)
		session = nil
	}

	c.mu.Lock()
	if session == nil {
		c.state = StateUnauthenticated
		c.session = nil
		c.mu.Unlock()
		return false
	}
	c.state = StateAuthenticated
	c.session = session
	c.mu.Unlock()

	c.start(ctx)
	return true
}

// Login authenticates the operator and, on success, performs the initial
// data load and opens the change-feed subscription.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.mu.Lock()
	if c.state == StateAuthenticating {
		c.mu.Unlock()
		return ErrLoginInProgress
	}
	c.state = StateAuthenticating
	c.mu.Unlock()

	session, err := c.gw.Auth.SignIn(ctx, email, password)
	if err != nil {
		c.mu.Lock()
		c.state = StateUnauthenticated
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.session = session
	c.mu.Unlock()

	c.logger.Info("operator signed in", "email", email)
	c.start(ctx)
	return nil
}

// Logout closes the subscription, clears the backend session and discards
// all in-memory collections.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub != nil {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Warn("unsubscribe failed", "error", err)
		}
	}

	if err := c.gw.Auth.SignOut(ctx); err != nil {
		c.logger.Warn("sign out failed", "error", err)
	}

	c.mu.Lock()
	c.state = StateUnauthenticated
	c.session = nil
	c.orders = nil
	c.products = nil
	c.categories = nil
	c.selected = nil
	c.filter = FilterAll
	view := c.refreshLocked(ctx)
	c.mu.Unlock()

	c.render(view)
}

// start performs the initial data load and opens the realtime subscription.
// Load failures are logged and surfaced per-collection by the next explicit
// reload; they do not abort the session.
func (c *Controller) start(ctx context.Context) {
	if err := c.LoadOrders(ctx); err != nil {
		c.logger.Error("initial order load failed", "error", err)
	}
	if err := c.LoadProducts(ctx); err != nil {
		c.logger.Error("initial product load failed", "error", err)
	}
	if err := c.LoadCategories(ctx); err != nil {
		c.logger.Error("initial category load failed", "error", err)
	}

	if c.gw.Feed == nil {
		return
	}
	sub, err := c.gw.Feed.Subscribe(ctx)
	if err != nil {
		c.logger.Error("change feed subscription failed", "error", err)
		return
	}

	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()

	go func() {
		for event := range sub.Events() {
			c.Apply(context.Background(), event)
		}
	}()
}
