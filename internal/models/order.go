package models

import (
	"strings"
	"time"
)

type Order struct {
	ID            int64       `json:"id"`
	CustomerEmail string      `json:"customer_email"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
}

type OrderItem struct {
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

// OrderSummary is one row of the order history.
type OrderSummary struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	CustomerEmail string    `json:"customer_email"`
	TotalCents    int64     `json:"total_cents"`
	TotalItems    int64     `json:"total_items"`
}

type PlaceOrderRequest struct {
	CustomerEmail string
	ProductID     int64
	Qty           int
}

// Normalize trims the email and clamps the quantity.
func (r *PlaceOrderRequest) Normalize() {
	r.CustomerEmail = strings.TrimSpace(r.CustomerEmail)
	r.Qty = Clamp(r.Qty, MinQty, MaxQty)
}

func (r *PlaceOrderRequest) Validate() error {
	if strings.TrimSpace(r.CustomerEmail) == "" || r.ProductID <= 0 {
		return &ValidationError{Message: "customer_email and product_id required"}
	}
	return nil
}
