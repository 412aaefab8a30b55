package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/goshop/internal/datamodels/order"
	"github.com/example/goshop/internal/errs"
)

func TestCreateFromCartSnapshotsAndClears(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keyboard := f.seedProduct(t, "Keyboard", "129.90", 10)
	mouse := f.seedProduct(t, "Mouse", "39.90", 5)

	const userID = int64(1)
	_, err := f.carts.AddItem(ctx, userID, keyboard.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, userID, mouse.ID, 1)
	require.NoError(t, err)

	o, err := f.orders.CreateFromCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, "299.70", o.TotalAmount.StringFixed(2))
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Keyboard", o.Items[0].ProductName)
	assert.Equal(t, "129.90", o.Items[0].UnitPrice.StringFixed(2))
	assert.EqualValues(t, 2, o.Items[0].Quantity)

	// Stock was debited and the cart emptied.
	kb, err := f.products.GetByID(ctx, keyboard.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 8, kb.StockQuantity)
	items, err := f.carts.Items(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Line prices are frozen: a later price change must not touch the order.
	kb.Price = kb.Price.Add(kb.Price)
	_, err = f.products.Update(ctx, kb.ID, kb)
	require.NoError(t, err)
	got, err := f.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "129.90", got.Items[0].UnitPrice.StringFixed(2))
}

func TestCreateFromCartEmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No cart at all.
	_, err := f.orders.CreateFromCart(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))

	// Cart exists but was emptied.
	p := f.seedProduct(t, "Hub", "59.00", 3)
	_, err = f.carts.AddItem(ctx, 1, p.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.carts.Clear(ctx, 1))
	_, err = f.orders.CreateFromCart(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestCreateFromCartInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keyboard := f.seedProduct(t, "Keyboard", "129.90", 10)
	monitor := f.seedProduct(t, "Monitor", "329.00", 2)

	const userID = int64(7)
	_, err := f.carts.AddItem(ctx, userID, keyboard.ID, 3)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, userID, monitor.ID, 2)
	require.NoError(t, err)

	// Another buyer drains the monitor stock after the cart was filled.
	require.NoError(t, f.products.DecrementStock(ctx, monitor.ID, 2))

	_, err = f.orders.CreateFromCart(ctx, userID)
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	assert.Contains(t, err.Error(), "Monitor")

	// Nothing moved: earlier lines rolled back, cart intact, no order rows.
	kb, err := f.products.GetByID(ctx, keyboard.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, kb.StockQuantity)
	items, err := f.carts.Items(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	orders, err := f.orders.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestListByUserNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Hub", "59.00", 10)
	const userID = int64(3)
	for i := 0; i < 2; i++ {
		_, err := f.carts.AddItem(ctx, userID, p.ID, 1)
		require.NoError(t, err)
		_, err = f.orders.CreateFromCart(ctx, userID)
		require.NoError(t, err)
	}

	list, err := f.orders.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Greater(t, list[0].ID, list[1].ID)
}

func TestListByUserIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Mouse", "39.90", 10)
	const userID = int64(5)
	_, err := f.carts.AddItem(ctx, userID, p.ID, 2)
	require.NoError(t, err)
	_, err = f.orders.CreateFromCart(ctx, userID)
	require.NoError(t, err)

	// Reading without intervening writes returns the same answer every time.
	first, err := f.orders.ListByUser(ctx, userID)
	require.NoError(t, err)
	second, err := f.orders.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, first, second)

	third, err := f.orders.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestToggleStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.seedProduct(t, "Mouse", "39.90", 5)
	_, err := f.carts.AddItem(ctx, 1, p.ID, 1)
	require.NoError(t, err)
	o, err := f.orders.CreateFromCart(ctx, 1)
	require.NoError(t, err)

	_, err = f.orders.ToggleStatus(ctx, o.ID, "REOPENED")
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))

	_, err = f.orders.ToggleStatus(ctx, 999, order.StatusShipped)
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	got, err := f.orders.ToggleStatus(ctx, o.ID, order.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, got.Status)

	// Any known status may replace any other, including going backwards.
	got, err = f.orders.ToggleStatus(ctx, o.ID, order.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, got.Status)
}
