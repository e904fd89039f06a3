package domain

import "time"

// OrderStatus captures the lifecycle of an order on the kitchen floor.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusDelivered OrderStatus = "delivered"
	StatusCompleted OrderStatus = "completed"
)

// Valid reports whether the status is one of the known wire values.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusDelivered, StatusCompleted:
		return true
	default:
		return false
	}
}

// OrderItem is a single line item of an order.
type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order represents a placed food order as stored by the backend. The total
// price is authoritative from storage and is never recomputed here.
type Order struct {
	ID           int64       `json:"id"`
	Status       OrderStatus `json:"status"`
	Items        []OrderItem `json:"products"`
	TotalPrice   float64     `json:"total_price"`
	TableNumber  *int        `json:"table_number,omitempty"`
	CustomerName *string     `json:"customer_name,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
