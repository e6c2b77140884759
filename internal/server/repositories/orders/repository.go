// Package orders persists placed orders and their line items.
package orders

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	// Create inserts the order and its items. Run it inside a transaction
	// to keep both writes atomic.
	Create(ctx context.Context, o *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
