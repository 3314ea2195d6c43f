package repository

import (
	"context"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db/dbtest"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryGorm_DecreaseStockIfEnough(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	p := dbtest.SeedProduct(t, gdb, "Chair", "40", "home", 3)

	r := NewInventoryGormRepository(gdb)

	require.NoError(t, r.DecreaseStockIfEnough(ctx, p.ID, 2))
	assert.Equal(t, int64(1), dbtest.Stock(t, gdb, p.ID))

	// 足りなければ減らさない
	assert.ErrorIs(t, r.DecreaseStockIfEnough(ctx, p.ID, 2), repo.ErrInsufficientStock)
	assert.Equal(t, int64(1), dbtest.Stock(t, gdb, p.ID))

	require.NoError(t, r.DecreaseStockIfEnough(ctx, p.ID, 1))
	assert.Equal(t, int64(0), dbtest.Stock(t, gdb, p.ID))
}

func TestInventoryGorm_CreateAdjustment(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)

	r := NewInventoryGormRepository(gdb)
	require.NoError(t, r.CreateAdjustment(ctx, model.InventoryAdjustment{ProductID: 1, OrderID: 7, Delta: -2, Reason: "order #7"}))

	assert.Equal(t, int64(1), dbtest.Count(t, gdb, &model.InventoryAdjustment{}, "order_id = ?", 7))
}
