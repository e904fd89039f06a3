package domain

import "time"

// Priority is the merchandising tier controlling product display order.
type Priority string

const (
	PriorityMostSelling Priority = "most_selling"
	PriorityHigh        Priority = "high"
	PriorityMedium      Priority = "medium"
	PriorityLow         Priority = "low"
)

// Rank maps a priority tier to its sort rank. Unknown or empty tiers rank
// with PriorityLow so records written before the column existed still sort.
func (p Priority) Rank() int {
	switch p {
	case PriorityMostSelling:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	default:
		return 4
	}
}

// Product is a catalog entry managed by the operator.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	Priority  Priority  `json:"priority,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
