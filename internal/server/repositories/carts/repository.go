// Package carts persists shopping cart lines. Every operation is scoped by
// the owning user id.
package carts

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, qty int) error
	Remove(ctx context.Context, userID, itemID string) error
	ClearByUser(ctx context.Context, userID string) error
}
