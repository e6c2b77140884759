package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCheckID(t *testing.T) {
	assert.NoError(t, checkID("user", uuid.NewString()))

	for _, id := range []string{"", "42", "missing", "not-a-uuid-at-all", "'; drop table users; --"} {
		err := checkID("user", id)
		assert.ErrorIs(t, err, common.ErrorNotFound, id)
	}
}

// newMockEnv builds services over a sqlmock connection with no expectations.
// Any statement that reaches it fails and surfaces as ErrorStoreUnavailable.
func newMockEnv(t *testing.T) (*testEnv, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := repomanager.NewSQLRepositoryManager(sqlx.NewDb(db, "pgx"))
	tokens, err := auth.NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	require.NoError(t, err)

	log := logging.Nop{}
	return &testEnv{
		m:        m,
		sessions: NewSessionService(m, auth.NewPasswordHasher(bcrypt.MinCost), tokens, log),
		users:    NewUserService(m, log),
		products: NewProductService(m, log),
		carts:    NewCartService(m, log),
		orders:   NewOrderService(m, log),
	}, mock
}

func TestMalformedIDs_NeverReachStore(t *testing.T) {
	env, mock := newMockEnv(t)
	ctx := context.Background()
	const bad = "not-a-uuid"
	user := uuid.NewString()

	checks := map[string]error{
		"get user":        func() error { _, err := env.users.GetUser(ctx, bad); return err }(),
		"update profile":  func() error { _, err := env.users.UpdateProfile(ctx, bad, ProfileInput{LastName: ptr("x")}); return err }(),
		"save address":    func() error { _, err := env.users.SaveAddress(ctx, bad, "1 Main St"); return err }(),
		"block":           env.users.Block(ctx, bad),
		"unblock":         env.users.Unblock(ctx, bad),
		"delete user":     env.users.DeleteUser(ctx, bad),
		"change password": env.sessions.ChangePassword(ctx, bad, "NewSecret1"),
		"get product":     func() error { _, err := env.products.Get(ctx, bad); return err }(),
		"update product":  func() error { _, err := env.products.Update(ctx, bad, ProductInput{Title: ptr("x")}); return err }(),
		"delete product":  env.products.Delete(ctx, bad),
		"add to cart":     func() error { _, err := env.carts.AddItem(ctx, user, AddCartItemInput{ProductID: bad, Quantity: 1}); return err }(),
		"update cart":     env.carts.UpdateQuantity(ctx, user, bad, 1),
		"remove cart":     env.carts.RemoveItem(ctx, user, bad),
		"order status":    func() error { _, err := env.orders.UpdateStatus(ctx, bad, "Delivered"); return err }(),
	}

	for name, err := range checks {
		assert.ErrorIs(t, err, common.ErrorNotFound, name)
		assert.NotErrorIs(t, err, common.ErrorStoreUnavailable, name)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuantityBounds_NeverReachStore(t *testing.T) {
	env, mock := newMockEnv(t)
	ctx := context.Background()
	user, product := uuid.NewString(), uuid.NewString()

	_, err := env.carts.AddItem(ctx, user, AddCartItemInput{ProductID: product, Quantity: maxCartQuantity + 1})
	assert.ErrorIs(t, err, common.ErrorValidation)

	err = env.carts.UpdateQuantity(ctx, user, uuid.NewString(), 1<<40)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = env.products.Create(ctx, ProductInput{Title: ptr("Mug"), Price: ptr(maxPrice + 1)})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = env.products.Update(ctx, product, ProductInput{Quantity: ptr(maxStock + 1)})
	assert.ErrorIs(t, err, common.ErrorValidation)

	assert.NoError(t, mock.ExpectationsWereMet())
}
