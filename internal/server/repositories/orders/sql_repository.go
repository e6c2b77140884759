package orders

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const orderColumns = `id, user_id, shipping_address, status, total_price, created_at`

type SQLRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLRepository) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	c := *o
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.OrderStatusOrdered
	}
	c.CreatedAt = r.now()

	query := r.db.Rebind(
		`INSERT INTO orders (id, user_id, shipping_address, status, total_price, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.UserID, c.ShippingAddress, c.Status, c.TotalPrice, c.CreatedAt); err != nil {
		return nil, dbx.Classify("create order", err)
	}

	itemQuery := r.db.Rebind(
		`INSERT INTO order_items (id, order_id, product_id, color, quantity, price)
		 VALUES (?, ?, ?, ?, ?, ?)`)

	c.Items = make([]models.OrderItem, len(o.Items))
	for i, it := range o.Items {
		it.ID = uuid.NewString()
		it.OrderID = c.ID
		if _, err := r.db.ExecContext(ctx, itemQuery, it.ID, it.OrderID, it.ProductID, it.Color, it.Quantity, it.Price); err != nil {
			return nil, dbx.Classify("create order item", err)
		}
		c.Items[i] = it
	}

	return &c, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	o := models.Order{}
	if err := r.db.GetContext(ctx, &o, r.db.Rebind(`SELECT `+orderColumns+` FROM orders WHERE id = ?`), id); err != nil {
		return nil, dbx.Classify("find order", err)
	}

	list := []models.Order{o}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id`)
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	list := []models.Order{}
	if err := r.db.SelectContext(ctx, &list, r.db.Rebind(query), args...); err != nil {
		return nil, dbx.Classify("list orders", err)
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SQLRepository) attachItems(ctx context.Context, list []models.Order) error {
	if len(list) == 0 {
		return nil
	}

	ids := make([]string, len(list))
	byID := make(map[string]*models.Order, len(list))
	for i := range list {
		ids[i] = list[i].ID
		list[i].Items = []models.OrderItem{}
		byID[list[i].ID] = &list[i]
	}

	query, args, err := sqlx.In(
		`SELECT id, order_id, product_id, color, quantity, price FROM order_items WHERE order_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return dbx.Classify("list order items", err)
	}

	var items []models.OrderItem
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return dbx.Classify("list order items", err)
	}
	for _, it := range items {
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return nil
}

func (r *SQLRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE orders SET status = ? WHERE id = ?`), status, id)
	if err != nil {
		return dbx.Classify("update order status", err)
	}
	return dbx.AffectedOne("update order status", res)
}
