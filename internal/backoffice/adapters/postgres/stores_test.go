//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dineview/backoffice/internal/backoffice/adapters/postgres"
	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
	"github.com/dineview/backoffice/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	testpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := testpostgres.Run(ctx,
		"postgres:16-alpine",
		testpostgres.WithDatabase("test"),
		testpostgres.WithUsername("test"),
		testpostgres.WithPassword("test"),
		testpostgres.BasicWaitStrategies(),
		testpostgres.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	projectRoot := findProjectRoot(t)
	migrationsPath := filepath.Join(projectRoot, "migrations")

	if err := database.RunMigrations(connStr, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func insertOrder(t *testing.T, pool *pgxpool.Pool, status domain.OrderStatus, total float64) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO orders (status, products, total_price, table_number)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		status, `[{"name": "Margherita", "price": 9.5, "quantity": 1}]`, total, 4,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}
	return id
}

func TestOrderStoreList(t *testing.T) {
	pool := setupTestDB(t)
	store := postgres.NewOrderStore(pool)
	ctx := context.Background()

	first := insertOrder(t, pool, domain.StatusPending, 9.5)
	time.Sleep(10 * time.Millisecond)
	second := insertOrder(t, pool, domain.StatusCompleted, 19.0)

	orders, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list orders: %v", err)
	}

	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != second {
		t.Errorf("expected newest order first, got %d", orders[0].ID)
	}
	if orders[1].ID != first {
		t.Errorf("expected oldest order last, got %d", orders[1].ID)
	}
	if len(orders[0].Items) != 1 || orders[0].Items[0].Name != "Margherita" {
		t.Errorf("unexpected items %+v", orders[0].Items)
	}
	if orders[0].TableNumber == nil || *orders[0].TableNumber != 4 {
		t.Errorf("unexpected table number %v", orders[0].TableNumber)
	}
}

func TestOrderStoreUpdateStatus(t *testing.T) {
	pool := setupTestDB(t)
	store := postgres.NewOrderStore(pool)
	ctx := context.Background()

	id := insertOrder(t, pool, domain.StatusPending, 9.5)

	if err := store.UpdateStatus(ctx, id, domain.StatusPreparing); err != nil {
		t.Fatalf("failed to update status: %v", err)
	}

	orders, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list orders: %v", err)
	}
	if orders[0].Status != domain.StatusPreparing {
		t.Errorf("expected preparing, got %s", orders[0].Status)
	}

	if err := store.UpdateStatus(ctx, 999999, domain.StatusCompleted); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProductStore(t *testing.T) {
	pool := setupTestDB(t)
	store := postgres.NewProductStore(pool)
	ctx := context.Background()

	input := ports.ProductInput{
		Name:     "Margherita",
		Price:    9.5,
		Category: "pizza",
		Priority: domain.PriorityMostSelling,
		ImageURL: "https://cdn.example.com/margherita.png",
	}
	if err := store.Insert(ctx, input); err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}

	products, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list products: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	created := products[0]
	if created.Name != input.Name || created.Priority != input.Priority {
		t.Errorf("unexpected product %+v", created)
	}

	input.Price = 10.5
	input.Priority = domain.PriorityHigh
	if err := store.Update(ctx, created.ID, input); err != nil {
		t.Fatalf("failed to update product: %v", err)
	}

	products, err = store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list products: %v", err)
	}
	if products[0].Price != 10.5 || products[0].Priority != domain.PriorityHigh {
		t.Errorf("unexpected product after update %+v", products[0])
	}

	if err := store.Update(ctx, 999999, input); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("failed to delete product: %v", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryStore(t *testing.T) {
	pool := setupTestDB(t)
	store := postgres.NewCategoryStore(pool)
	ctx := context.Background()

	created, err := store.Insert(ctx, ports.CategoryInput{
		Key:      "pizza",
		Name:     "Pizza",
		Icon:     "fa-pizza-slice",
		IconType: domain.IconFontAwesome,
	})
	if err != nil {
		t.Fatalf("failed to insert category: %v", err)
	}
	if created.Key != "pizza" || created.CreatedAt.IsZero() {
		t.Errorf("unexpected created category %+v", created)
	}

	if _, err := store.Insert(ctx, ports.CategoryInput{Key: "pizza", Name: "Again"}); err == nil {
		t.Error("expected duplicate key insert to fail")
	}

	if _, err := store.Insert(ctx, ports.CategoryInput{Key: "sushi", Name: "Sushi", Icon: "fa-fish", IconType: domain.IconFontAwesome}); err != nil {
		t.Fatalf("failed to insert category: %v", err)
	}

	if err := store.UpdatePosition(ctx, "sushi", 1); err != nil {
		t.Fatalf("failed to update position: %v", err)
	}
	if err := store.UpdatePosition(ctx, "pizza", 2); err != nil {
		t.Fatalf("failed to update position: %v", err)
	}

	categories, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Key != "sushi" || categories[1].Key != "pizza" {
		t.Errorf("expected [sushi pizza], got [%s %s]", categories[0].Key, categories[1].Key)
	}

	if err := store.Update(ctx, "pizza", ports.CategoryPatch{Name: "Pizzas", Icon: "fa-pizza-slice", IconType: domain.IconFontAwesome}); err != nil {
		t.Fatalf("failed to update category: %v", err)
	}

	if err := store.Delete(ctx, "sushi"); err != nil {
		t.Fatalf("failed to delete category: %v", err)
	}
	if err := store.Delete(ctx, "sushi"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFeed(t *testing.T) {
	pool := setupTestDB(t)
	feed := postgres.NewFeed(pool, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	sub, err := feed.Subscribe(ctx)
	if err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	id := insertOrder(t, pool, domain.StatusPending, 9.5)

	select {
	case event := <-sub.Events():
		inserted, ok := event.(ports.OrderInserted)
		if !ok {
			t.Fatalf("expected OrderInserted, got %T", event)
		}
		if inserted.Order.ID != id {
			t.Errorf("expected order %d, got %d", id, inserted.Order.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for insert event")
	}

	store := postgres.NewOrderStore(pool)
	if err := store.UpdateStatus(ctx, id, domain.StatusCompleted); err != nil {
		t.Fatalf("failed to update status: %v", err)
	}

	select {
	case event := <-sub.Events():
		updated, ok := event.(ports.OrderUpdated)
		if !ok {
			t.Fatalf("expected OrderUpdated, got %T", event)
		}
		if updated.Order.Status != domain.StatusCompleted {
			t.Errorf("expected completed, got %s", updated.Order.Status)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for update event")
	}

	if err := sub.Unsubscribe(); err != nil {
		t.Fatalf("failed to unsubscribe: %v", err)
	}
	if err := sub.Unsubscribe(); err != nil {
		t.Fatalf("second unsubscribe failed: %v", err)
	}
}
