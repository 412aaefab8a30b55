package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/goshop/internal/datamodels/product"
	"github.com/example/goshop/internal/errs"
)

func TestProductCreateDuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedProduct(t, "Keyboard", "129.90", 10)
	err := f.products.Create(ctx, &product.Product{Name: "Keyboard", Price: decimal.New(1, 0)})
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestProductCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.products.Create(ctx, &product.Product{Name: ""})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))

	err = f.products.Create(ctx, &product.Product{Name: "X", Price: decimal.RequireFromString("-1")})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))

	err = f.products.Create(ctx, &product.Product{Name: "X", StockQuantity: -1})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))
}

func TestProductUpdateRenameConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedProduct(t, "Keyboard", "129.90", 10)
	mouse := f.seedProduct(t, "Mouse", "39.90", 5)

	_, err := f.products.Update(ctx, mouse.ID, &product.Product{Name: "Keyboard"})
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))

	// Saving under its own name is not a conflict.
	got, err := f.products.Update(ctx, mouse.ID, &product.Product{
		Name:          "Mouse",
		Price:         decimal.RequireFromString("44.90"),
		StockQuantity: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "44.90", got.Price.StringFixed(2))
	assert.EqualValues(t, 7, got.StockQuantity)
}

func TestProductUpdateFullReplace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Hub", "59.00", 8)
	p.Description = "7-in-1"
	_, err := f.products.Update(ctx, p.ID, p)
	require.NoError(t, err)

	// PUT carries the whole product: omitted fields land as zero values.
	got, err := f.products.Update(ctx, p.ID, &product.Product{Name: "Hub"})
	require.NoError(t, err)
	assert.Empty(t, got.Description)
	assert.True(t, got.Price.IsZero())
	assert.EqualValues(t, 0, got.StockQuantity)

	// Price zero is a legal value, an absent name is not.
	_, err = f.products.Update(ctx, p.ID, &product.Product{})
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))
}

func TestDecrementStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Hub", "59.00", 3)

	require.NoError(t, f.products.DecrementStock(ctx, p.ID, 2))
	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.StockQuantity)

	err = f.products.DecrementStock(ctx, p.ID, 2)
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))

	err = f.products.DecrementStock(ctx, 999, 1)
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	err = f.products.DecrementStock(ctx, p.ID, 0)
	require.Error(t, err)
	assert.Equal(t, errs.KindInvalid, errs.KindOf(err))
}

func TestGetByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "Keyboard", "129.90", 10)

	got, err := f.products.GetByName(ctx, "Keyboard")
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", got.Name)

	_, err = f.products.GetByName(ctx, "Ghost")
	require.Error(t, err)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}
