package domain

import "time"

// Order is the primary business record written by the resilience write-path.
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	CustomerPhone string      `json:"customer_phone"`
	Address       string      `json:"address"`
	Items         []OrderItem `json:"items"`
	TotalCents    int64       `json:"total_cents"`
	Status        OrderStatus `json:"status"`

	// Origin states which write site produced the order. Every caller
	// must set it explicitly; the writer rejects orders without one.
	Origin string `json:"origin"`

	CreatedAt time.Time `json:"created_at"`
}

// OrderItem is a single line in an order.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitCents int64  `json:"unit_cents"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)
