package ports

import "github.com/dineview/backoffice/internal/backoffice/domain"

// Event is a pushed change notification from the backend feed.
type Event interface {
	isEvent()
}

// OrderInserted signals a newly created order row.
type OrderInserted struct {
	Order domain.Order
}

// OrderUpdated signals a mutated order row. The payload is the full new row.
type OrderUpdated struct {
	Order domain.Order
}

func (OrderInserted) isEvent() {}
func (OrderUpdated) isEvent()  {}
