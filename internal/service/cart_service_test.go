package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/goshop/internal/errs"
)

func TestAddItemMergesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Keyboard", "129.90", 10)

	item, err := f.carts.AddItem(ctx, 1, p.ID, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 2, item.Quantity)

	item, err = f.carts.AddItem(ctx, 1, p.ID, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 5, item.Quantity)

	items, err := f.carts.Items(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 5, items[0].Quantity)
}

func TestAddItemStockCeiling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Mouse", "39.90", 4)

	_, err := f.carts.AddItem(ctx, 1, p.ID, 3)
	require.NoError(t, err)

	// The cumulative quantity is checked, not the increment alone.
	_, err = f.carts.AddItem(ctx, 1, p.ID, 2)
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))

	_, err = f.carts.AddItem(ctx, 1, p.ID, 1)
	require.NoError(t, err)
}

func TestAddItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Hub", "59.00", 5)

	_, err := f.carts.AddItem(ctx, 1, p.ID, 0)
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))

	_, err = f.carts.AddItem(ctx, 1, 999, 1)
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestRemoveItemOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Hub", "59.00", 5)

	item, err := f.carts.AddItem(ctx, 1, p.ID, 1)
	require.NoError(t, err)

	// Another user cannot remove it.
	err = f.carts.RemoveItem(ctx, 2, item.ID)
	require.Error(t, err)
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))

	require.NoError(t, f.carts.RemoveItem(ctx, 1, item.ID))
	err = f.carts.RemoveItem(ctx, 1, item.ID)
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestInspectAndCleanAnotherUsersCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Hub", "59.00", 5)

	_, err := f.carts.AddItem(ctx, 1, p.ID, 2)
	require.NoError(t, err)

	// Cart contents can be inspected and cleaned by user id, as the admin
	// views do.
	items, err := f.carts.Items(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, f.carts.Clear(ctx, 1))
	items, err = f.carts.Items(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClearIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No cart yet.
	require.NoError(t, f.carts.Clear(ctx, 42))

	p := f.seedProduct(t, "Hub", "59.00", 5)
	_, err := f.carts.AddItem(ctx, 42, p.ID, 2)
	require.NoError(t, err)
	require.NoError(t, f.carts.Clear(ctx, 42))
	require.NoError(t, f.carts.Clear(ctx, 42))

	items, err := f.carts.Items(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, items)
}
