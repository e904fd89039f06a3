package ports

import (
	"context"

	"github.com/dineview/backoffice/internal/backoffice/domain"
)

// Session identifies an authenticated operator.
type Session struct {
	UserID      string
	Email       string
	AccessToken string
}

// AuthGateway exposes the backend's password authentication.
type AuthGateway interface {
	// Session returns the current session, or (nil, nil) when none exists.
	Session(ctx context.Context) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
}

// OrderStore exposes the order table. Orders are created by the customer
// ordering flow, so the console only reads them and updates their status.
type OrderStore interface {
	// List returns all orders ordered by creation time descending.
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

// ProductInput carries the writable fields of a product row.
type ProductInput struct {
	Name     string
	Price    float64
	Category string
	Priority domain.Priority
	ImageURL string
}

// ProductStore exposes the product table.
type ProductStore interface {
	List(ctx context.Context) ([]domain.Product, error)
	Insert(ctx context.Context, in ProductInput) error
	Update(ctx context.Context, id int64, in ProductInput) error
	Delete(ctx context.Context, id int64) error
}

// CategoryInput carries the fields of a new category row.
type CategoryInput struct {
	Key      string
	Name     string
	Icon     string
	IconType domain.IconType
}

// CategoryPatch carries the editable fields of an existing category. The key
// is immutable after creation.
type CategoryPatch struct {
	Name     string
	Icon     string
	IconType domain.IconType
}

// CategoryStore exposes the category table.
type CategoryStore interface {
	// List returns categories ordered by sort_order ascending with nulls
	// last, then by creation time ascending.
	List(ctx context.Context) ([]domain.Category, error)
	// Insert creates the row and returns it as stored (with created_at).
	Insert(ctx context.Context, in CategoryInput) (domain.Category, error)
	Update(ctx context.Context, key string, patch CategoryPatch) error
	UpdatePosition(ctx context.Context, key string, position int) error
	Delete(ctx context.Context, key string) error
}

// BlobStore uploads binary objects and returns their public address.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// ChangeFeed delivers row-level change notifications for the order table.
type ChangeFeed interface {
	Subscribe(ctx context.Context) (Subscription, error)
}

// Subscription is an open change-feed stream. Events is closed after
// Unsubscribe, which is safe to call more than once.
type Subscription interface {
	Events() <-chan Event
	Unsubscribe() error
}

// Gateway bundles every backend surface the console consumes.
type Gateway struct {
	Auth       AuthGateway
	Orders     OrderStore
	Products   ProductStore
	Categories CategoryStore
	Blobs      BlobStore
	Feed       ChangeFeed
}
