package carts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/google/uuid"
)

type SQLRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLRepository) Add(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	c := *item
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = r.now()

	query := r.db.Rebind(
		`INSERT INTO cart_items (id, user_id, product_id, color, price, quantity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)

	if _, err := r.db.ExecContext(ctx, query, c.ID, c.UserID, c.ProductID, c.Color, c.Price, c.Quantity, c.CreatedAt); err != nil {
		return nil, dbx.Classify("add cart item", err)
	}
	return &c, nil
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	query := r.db.Rebind(
		`SELECT id, user_id, product_id, color, price, quantity, created_at
		 FROM cart_items WHERE user_id = ? ORDER BY created_at, id`)

	items := []models.CartItem{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, dbx.Classify("list cart", err)
	}
	return items, nil
}

func (r *SQLRepository) UpdateQuantity(ctx context.Context, userID, itemID string, qty int) error {
	query := r.db.Rebind(`UPDATE cart_items SET quantity = ? WHERE id = ? AND user_id = ?`)

	res, err := r.db.ExecContext(ctx, query, qty, itemID, userID)
	if err != nil {
		return dbx.Classify("update cart item", err)
	}
	return dbx.AffectedOne("update cart item", res)
}

func (r *SQLRepository) Remove(ctx context.Context, userID, itemID string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM cart_items WHERE id = ? AND user_id = ?`), itemID, userID)
	if err != nil {
		return dbx.Classify("remove cart item", err)
	}
	return dbx.AffectedOne("remove cart item", res)
}

func (r *SQLRepository) ClearByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM cart_items WHERE user_id = ?`), userID); err != nil {
		return dbx.Classify("clear cart", err)
	}
	return nil
}
