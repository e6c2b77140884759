// Package users is the credential store: persistence for identities,
// including the single active refresh token of each one.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateByID(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	DeleteByID(ctx context.Context, id string) error

	// SetPassword replaces the hash, stamps password_changed_at and clears
	// the refresh token.
	SetPassword(ctx context.Context, id, hash string, changedAt time.Time) error

	SetRefreshToken(ctx context.Context, id, token string) error
	// ReplaceRefreshToken swaps expected for next only if expected is still
	// the stored value; otherwise it returns common.ErrVersionConflict.
	ReplaceRefreshToken(ctx context.Context, id, expected, next string) error
	ClearRefreshToken(ctx context.Context, id string) error
}
