package models

import "time"

// Order statuses.
const (
	OrderStatusOrdered    = "Ordered"
	OrderStatusProcessing = "Processing"
	OrderStatusDispatched = "Dispatched"
	OrderStatusCancelled  = "Cancelled"
	OrderStatusDelivered  = "Delivered"
)

// OrderStatuses lists every valid status value.
var OrderStatuses = []string{
	OrderStatusOrdered,
	OrderStatusProcessing,
	OrderStatusDispatched,
	OrderStatusCancelled,
	OrderStatusDelivered,
}

type Order struct {
	ID              string      `db:"id" json:"_id"`
	UserID          string      `db:"user_id" json:"userId"`
	ShippingAddress string      `db:"shipping_address" json:"shippingAddress"`
	Status          string      `db:"status" json:"status"`
	TotalPrice      int64       `db:"total_price" json:"totalPrice"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	Items           []OrderItem `db:"-" json:"items"`
}

type OrderItem struct {
	ID        string `db:"id" json:"_id"`
	OrderID   string `db:"order_id" json:"orderId"`
	ProductID string `db:"product_id" json:"productId"`
	Color     string `db:"color" json:"color"`
	Quantity  int    `db:"quantity" json:"quantity"`
	Price     int64  `db:"price" json:"price"`
}
