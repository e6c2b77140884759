// Package products persists the product catalog.
package products

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

// Filter narrows List; empty fields match everything.
type Filter struct {
	Category string
	Brand    string
}

// Patch lists the product fields an update may change; nil fields are kept.
type Patch struct {
	Title       *string
	Slug        *string
	Description *string
	Price       *int64
	Category    *string
	Brand       *string
	Quantity    *int
}

type Repository interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, f Filter) ([]models.Product, error)
	Update(ctx context.Context, id string, patch Patch) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	// RecordSale moves qty units from stock to sold.
	RecordSale(ctx context.Context, id string, qty int) error
}
