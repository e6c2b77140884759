package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/google/uuid"
)

const productColumns = `id, title, slug, description, price, category, brand, quantity, sold, created_at, updated_at`

type SQLRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	c := *p
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := r.now()
	c.CreatedAt, c.UpdatedAt = now, now

	query := r.db.Rebind(
		`INSERT INTO products (id, title, slug, description, price, category, brand, quantity, sold, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Title, c.Slug, c.Description, c.Price,
		c.Category, c.Brand, c.Quantity, c.Sold, c.CreatedAt, c.UpdatedAt); err != nil {
		return nil, dbx.Classify("create product", err)
	}

	return &c, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	p := &models.Product{}
	query := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)
	if err := r.db.GetContext(ctx, p, query, id); err != nil {
		return nil, dbx.Classify("find product", err)
	}
	return p, nil
}

func (r *SQLRepository) List(ctx context.Context, f Filter) ([]models.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Brand != "" {
		where = append(where, "brand = ?")
		args = append(args, f.Brand)
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, slug`

	list := []models.Product{}
	if err := r.db.SelectContext(ctx, &list, r.db.Rebind(query), args...); err != nil {
		return nil, dbx.Classify("list products", err)
	}
	return list, nil
}

func (r *SQLRepository) Update(ctx context.Context, id string, patch Patch) (*models.Product, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Brand != nil {
		add("brand", *patch.Brand)
	}
	if patch.Quantity != nil {
		add("quantity", *patch.Quantity)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}
	add("updated_at", r.now())
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`), args...)
	if err != nil {
		return nil, dbx.Classify("update product", err)
	}
	if err := dbx.AffectedOne("update product", res); err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return dbx.Classify("delete product", err)
	}
	return dbx.AffectedOne("delete product", res)
}

func (r *SQLRepository) RecordSale(ctx context.Context, id string, qty int) error {
	query := r.db.Rebind(
		`UPDATE products SET quantity = quantity - ?, sold = sold + ?, updated_at = ?
		 WHERE id = ? AND quantity >= ?`)

	res, err := r.db.ExecContext(ctx, query, qty, qty, r.now(), id, qty)
	if err != nil {
		return dbx.Classify("record sale", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify("record sale", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: insufficient stock for product %s", common.ErrorValidation, id)
	}
	return nil
}
