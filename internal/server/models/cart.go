package models

import "time"

// CartItem is one line of a user's cart. Price is captured when the item is
// added so later catalog changes do not alter the cart.
type CartItem struct {
	ID        string    `db:"id" json:"_id"`
	UserID    string    `db:"user_id" json:"userId"`
	ProductID string    `db:"product_id" json:"productId"`
	Color     string    `db:"color" json:"color"`
	Price     int64     `db:"price" json:"price"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
