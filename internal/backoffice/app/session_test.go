package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dineview/backoffice/internal/backoffice/adapters/memory"
	"github.com/dineview/backoffice/internal/backoffice/app"
	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestLogin(t *testing.T) {
	t.Run("wrong credentials surface an auth error", func(t *testing.T) {
		gw := memory.NewGateway()
		gw.SeedOperator("admin@dineview.io", "s3cret")
		c := app.New(gw.Ports(), nil, testLogger(), nil)

		err := c.Login(context.Background(), "admin@dineview.io", "wrong")
		var authErr *ports.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected AuthError, got %v", err)
		}
		if c.State() != app.StateUnauthenticated {
			t.Errorf("expected unauthenticated state, got %v", c.State())
		}
	})

	t.Run("success loads every collection and opens the feed", func(t *testing.T) {
		gw := memory.NewGateway()
		gw.SeedOperator("admin@dineview.io", "s3cret")
		gw.PlaceOrder(domain.Order{Status: domain.StatusPending, TotalPrice: 42})
		c := app.New(gw.Ports(), nil, testLogger(), nil)

		if err := c.Login(context.Background(), "admin@dineview.io", "s3cret"); err != nil {
			t.Fatalf("login: %v", err)
		}
		if c.State() != app.StateAuthenticated {
			t.Fatalf("expected authenticated state, got %v", c.State())
		}
		if got := len(c.Snapshot().Orders); got != 1 {
			t.Fatalf("expected 1 order loaded, got %d", got)
		}

		// A push arriving after login reaches the collection via the feed.
		gw.PlaceOrder(domain.Order{Status: domain.StatusPending, TotalPrice: 13})
		waitFor(t, func() bool { return c.PendingOrders() == 2 })

		c.Logout(context.Background())
	})
}

func TestLogout(t *testing.T) {
	gw := memory.NewGateway()
	gw.SeedOperator("admin@dineview.io", "s3cret")
	gw.PlaceOrder(domain.Order{Status: domain.StatusPending})
	c := app.New(gw.Ports(), nil, testLogger(), nil)
	ctx := context.Background()

	if err := c.Login(ctx, "admin@dineview.io", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	c.Logout(ctx)

	if c.State() != app.StateUnauthenticated {
		t.Errorf("expected unauthenticated state, got %v", c.State())
	}
	view := c.Snapshot()
	if len(view.Orders) != 0 || len(view.Products) != 0 || len(view.Categories) != 0 {
		t.Errorf("expected collections cleared, got %+v", view)
	}
	if view.PendingOrders != 0 {
		t.Errorf("expected pending counter reset, got %d", view.PendingOrders)
	}
	if session, _ := gw.Session(ctx); session != nil {
		t.Error("expected backend session cleared")
	}

	// Logout twice is safe.
	c.Logout(ctx)
}

func TestCheckSession(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		gw := memory.NewGateway()
		c := app.New(gw.Ports(), nil, testLogger(), nil)
		if c.CheckSession(context.Background()) {
			t.Error("expected no session")
		}
		if c.State() != app.StateUnauthenticated {
			t.Errorf("expected unauthenticated state, got %v", c.State())
		}
	})

	t.Run("existing session is adopted", func(t *testing.T) {
		gw := memory.NewGateway()
		gw.SeedOperator("admin@dineview.io", "s3cret")
		ctx := context.Background()
		if _, err := gw.SignIn(ctx, "admin@dineview.io", "s3cret"); err != nil {
			t.Fatalf("seed sign-in: %v", err)
		}
		gw.PlaceOrder(domain.Order{Status: domain.StatusPending})

		c := app.New(gw.Ports(), nil, testLogger(), nil)
		if !c.CheckSession(ctx) {
			t.Fatal("expected session to be adopted")
		}
		if c.State() != app.StateAuthenticated {
			t.Errorf("expected authenticated state, got %v", c.State())
		}
		if got := len(c.Snapshot().Orders); got != 1 {
			t.Errorf("expected initial load, got %d orders", got)
		}
		c.Logout(ctx)
	})
}
