package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/sqltest"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	m        *repomanager.SQLRepositoryManager
	sessions *SessionService
	users    *UserService
	products *ProductService
	carts    *CartService
	orders   *OrderService
	tokens   *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	m := repomanager.NewSQLRepositoryManager(sqltest.Open(t))
	tokens, err := auth.NewTokenIssuer("access-secret", "refresh-secret", 15*time.Minute, 72*time.Hour)
	require.NoError(t, err)

	log := logging.Nop{}
	return &testEnv{
		m:        m,
		sessions: NewSessionService(m, auth.NewPasswordHasher(bcrypt.MinCost), tokens, log),
		users:    NewUserService(m, log),
		products: NewProductService(m, log),
		carts:    NewCartService(m, log),
		orders:   NewOrderService(m, log),
		tokens:   tokens,
	}
}

func (e *testEnv) register(t *testing.T, email, password string) *models.User {
	t.Helper()
	u, err := e.sessions.Register(context.Background(), RegisterInput{FirstName: "Test", Email: email, Password: password})
	require.NoError(t, err)
	return u
}

func (e *testEnv) storedRefreshToken(t *testing.T, userID string) *string {
	t.Helper()
	u, err := e.m.Users(e.m.DB()).FindByID(context.Background(), userID)
	require.NoError(t, err)
	return u.RefreshToken
}

func ptr[T any](v T) *T { return &v }
