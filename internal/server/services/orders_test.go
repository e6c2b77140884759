package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAndOrderFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := env.register(t, "a@b.com", "Secret123")
	other := env.register(t, "b@b.com", "Secret123")
	_, err := env.users.SaveAddress(ctx, u.ID, "1 Main St")
	require.NoError(t, err)

	mug, err := env.products.Create(ctx, ProductInput{Title: ptr("Mug"), Price: ptr(int64(500)), Quantity: ptr(5)})
	require.NoError(t, err)
	pen, err := env.products.Create(ctx, ProductInput{Title: ptr("Pen"), Price: ptr(int64(150)), Quantity: ptr(10)})
	require.NoError(t, err)

	_, err = env.orders.PlaceOrder(ctx, u.ID, "")
	assert.ErrorIs(t, err, common.ErrorValidation, "empty cart")

	_, err = env.carts.AddItem(ctx, u.ID, AddCartItemInput{ProductID: mug.ID, Quantity: 0})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = env.carts.AddItem(ctx, u.ID, AddCartItemInput{ProductID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mugLine, err := env.carts.AddItem(ctx, u.ID, AddCartItemInput{ProductID: mug.ID, Color: "blue", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(500), mugLine.Price)
	_, err = env.carts.AddItem(ctx, u.ID, AddCartItemInput{ProductID: pen.ID, Quantity: 3})
	require.NoError(t, err)

	require.NoError(t, env.carts.UpdateQuantity(ctx, u.ID, mugLine.ID, 2))
	assert.ErrorIs(t, env.carts.UpdateQuantity(ctx, other.ID, mugLine.ID, 1), common.ErrorNotFound)
	assert.ErrorIs(t, env.carts.UpdateQuantity(ctx, u.ID, mugLine.ID, 0), common.ErrorValidation)

	cart, err := env.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, int64(2*500+3*150), cart.Total)

	order, err := env.orders.PlaceOrder(ctx, u.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", order.ShippingAddress)
	assert.Equal(t, int64(1450), order.TotalPrice)
	assert.Equal(t, models.OrderStatusOrdered, order.Status)
	assert.Len(t, order.Items, 2)

	cart, err = env.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	soldMug, err := env.products.Get(ctx, mug.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, soldMug.Quantity)
	assert.Equal(t, 2, soldMug.Sold)

	mine, err := env.orders.ListOrders(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	theirs, err := env.orders.ListOrders(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = env.orders.UpdateStatus(ctx, order.ID, "Lost")
	assert.ErrorIs(t, err, common.ErrorValidation)
	shipped, err := env.orders.UpdateStatus(ctx, order.ID, models.OrderStatusDispatched)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDispatched, shipped.Status)

	all, err := env.orders.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPlaceOrder_RollsBackOnInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.register(t, "a@b.com", "Secret123")

	p, err := env.products.Create(ctx, ProductInput{Title: ptr("Rare"), Price: ptr(int64(100)), Quantity: ptr(1)})
	require.NoError(t, err)
	_, err = env.carts.AddItem(ctx, u.ID, AddCartItemInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = env.orders.PlaceOrder(ctx, u.ID, "somewhere")
	assert.ErrorIs(t, err, common.ErrorValidation)

	cart, err := env.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "cart survives a failed order")

	orders, err := env.orders.ListOrders(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)

	require.NoError(t, env.carts.RemoveItem(ctx, u.ID, cart.Items[0].ID))
	require.NoError(t, env.carts.EmptyCart(ctx, u.ID))
}
