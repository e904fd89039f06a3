package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dineview/backoffice/internal/backoffice/domain"
	"github.com/dineview/backoffice/internal/backoffice/ports"
)

// Gateway is an in-memory backend useful for local development and tests.
// It implements every port the console consumes and simulates the change
// feed by broadcasting order writes to open subscriptions.
type Gateway struct {
	mu            sync.RWMutex
	email         string
	password      string
	session       *ports.Session
	orders        map[int64]domain.Order
	products      map[int64]domain.Product
	categories    map[string]domain.Category
	blobs         map[string][]byte
	nextOrderID   int64
	nextProductID int64
	subs          []*subscription
}

// NewGateway constructs an empty in-memory backend.
func NewGateway() *Gateway {
	return &Gateway{
		orders:     make(map[int64]domain.Order),
		products:   make(map[int64]domain.Product),
		categories: make(map[string]domain.Category),
		blobs:      make(map[string][]byte),
	}
}

// Ports bundles the gateway surfaces for controller wiring.
func (g *Gateway) Ports() ports.Gateway {
	return ports.Gateway{
		Auth:       g,
		Orders:     (*orderStore)(g),
		Products:   (*productStore)(g),
		Categories: (*categoryStore)(g),
		Blobs:      g,
		Feed:       g,
	}
}

// SeedOperator registers the single operator account accepted by SignIn.
func (g *Gateway) SeedOperator(email, password string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.email = email
	g.password = password
}

func (g *Gateway) Session(_ context.Context) (*ports.Session, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return nil, nil
	}
	s := *g.session
	return &s, nil
}

func (g *Gateway) SignIn(_ context.Context, email, password string) (*ports.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if email != g.email || password != g.password {
		return nil, &ports.AuthError{Reason: "Invalid login credentials"}
	}
	g.session = &ports.Session{UserID: "local-operator", Email: email, AccessToken: "local"}
	s := *g.session
	return &s, nil
}

func (g *Gateway) SignOut(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = nil
	return nil
}

// PlaceOrder simulates the customer ordering flow: it stores the order and
// pushes an insert event to every open subscription.
func (g *Gateway) PlaceOrder(order domain.Order) domain.Order {
	g.mu.Lock()
	if order.ID == 0 {
		g.nextOrderID++
		order.ID = g.nextOrderID
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	g.orders[order.ID] = order
	g.mu.Unlock()

	g.broadcast(ports.OrderInserted{Order: order})
	return order
}

// Upload stores the blob and returns a deterministic public address.
func (g *Gateway) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	blob := make([]byte, len(data))
	copy(blob, data)
	g.blobs[path] = blob
	return "https://storage.local/" + path, nil
}

// Subscribe opens a change-feed stream fed by PlaceOrder and status updates.
func (g *Gateway) Subscribe(_ context.Context) (ports.Subscription, error) {
	sub := &subscription{events: make(chan ports.Event, 32)}
	g.mu.Lock()
	g.subs = append(g.subs, sub)
	g.mu.Unlock()
	return sub, nil
}

func (g *Gateway) broadcast(event ports.Event) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, sub := range g.subs {
		select {
		case sub.events <- event:
		default:
			// Slow consumer: drop rather than block the writer.
		}
	}
}

type subscription struct {
	events chan ports.Event
	once   sync.Once
}

func (s *subscription) Events() <-chan ports.Event {
	return s.events
}

func (s *subscription) Unsubscribe() error {
	s.once.Do(func() { close(s.events) })
	return nil
}

type orderStore Gateway

func (s *orderStore) List(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *orderStore) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	s.mu.Lock()
	order, ok := s.orders[id]
	if !ok {
		s.mu.Unlock()
		return ports.ErrNotFound
	}
	order.Status = status
	s.orders[id] = order
	s.mu.Unlock()

	// Row updates reach the feed too, own writes included.
	(*Gateway)(s).broadcast(ports.OrderUpdated{Order: order})
	return nil
}

type productStore Gateway

func (s *productStore) List(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *productStore) Insert(_ context.Context, in ports.ProductInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProductID++
	s.products[s.nextProductID] = domain.Product{
		ID:        s.nextProductID,
		Name:      in.Name,
		Price:     in.Price,
		Category:  in.Category,
		Priority:  in.Priority,
		ImageURL:  in.ImageURL,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *productStore) Update(_ context.Context, id int64, in ports.ProductInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return ports.ErrNotFound
	}
	p.Name = in.Name
	p.Price = in.Price
	p.Category = in.Category
	p.Priority = in.Priority
	p.ImageURL = in.ImageURL
	s.products[id] = p
	return nil
}

func (s *productStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

type categoryStore Gateway

func (s *categoryStore) List(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		a, b := categories[i], categories[j]
		switch {
		case a.SortOrder != nil && b.SortOrder != nil && *a.SortOrder != *b.SortOrder:
			return *a.SortOrder < *b.SortOrder
		case a.SortOrder != nil && b.SortOrder == nil:
			return true
		case a.SortOrder == nil && b.SortOrder != nil:
			return false
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return categories, nil
}

func (s *categoryStore) Insert(_ context.Context, in ports.CategoryInput) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.categories[in.Key]; exists {
		return domain.Category{}, fmt.Errorf("duplicate key value %q", in.Key)
	}
	created := domain.Category{
		Key:       in.Key,
		Name:      in.Name,
		Icon:      in.Icon,
		IconType:  in.IconType,
		CreatedAt: time.Now().UTC(),
	}
	s.categories[in.Key] = created
	return created, nil
}

func (s *categoryStore) Update(_ context.Context, key string, patch ports.CategoryPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[key]
	if !ok {
		return ports.ErrNotFound
	}
	c.Name = patch.Name
	c.Icon = patch.Icon
	c.IconType = patch.IconType
	s.categories[key] = c
	return nil
}

func (s *categoryStore) UpdatePosition(_ context.Context, key string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[key]
	if !ok {
		return ports.ErrNotFound
	}
	pos := position
	c.SortOrder = &pos
	s.categories[key] = c
	return nil
}

func (s *categoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[key]; !ok {
		return ports.ErrNotFound
	}
	delete(s.categories, key)
	return nil
}
