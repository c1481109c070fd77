package models

import "time"

// OrderPlacedEvent is published after an order commits
type OrderPlacedEvent struct {
	OrderID       int64     `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	ProductID     int64     `json:"product_id"`
	Qty           int       `json:"qty"`
	PlacedAt      time.Time `json:"placed_at"`
}
