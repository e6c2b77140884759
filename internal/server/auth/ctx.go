package auth

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type contextKey struct {
	name string
}

var userCtxKey = &contextKey{"user"}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext returns the user stored by WithUser.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userCtxKey).(*models.User)
	return u, ok && u != nil
}
