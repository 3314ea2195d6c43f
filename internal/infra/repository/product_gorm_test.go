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

func productNames(ps []model.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestProductGorm_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	dbtest.SeedProduct(t, gdb, "Blue Shirt", "25.00", "clothing", 5)
	dbtest.SeedProduct(t, gdb, "Red Shirt", "15.00", "clothing", 5)
	dbtest.SeedProduct(t, gdb, "Laptop", "999.99", "electronics", 2)

	r := NewProductGormRepository(gdb)

	all, err := r.List(ctx, repo.ProductListQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue Shirt", "Red Shirt", "Laptop"}, productNames(all))

	shirts, err := r.List(ctx, repo.ProductListQuery{Q: "shirt", Sort: "price_asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Red Shirt", "Blue Shirt"}, productNames(shirts))

	minPrice := model.MustMoney("20")
	pricey, err := r.List(ctx, repo.ProductListQuery{MinPrice: &minPrice, Sort: "price_desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "Blue Shirt"}, productNames(pricey))

	byName, err := r.List(ctx, repo.ProductListQuery{Category: "clothing", Sort: "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue Shirt", "Red Shirt"}, productNames(byName))
}

func TestProductGorm_FindByID(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	p := dbtest.SeedProduct(t, gdb, "Lamp", "30.25", "home", 3)

	r := NewProductGormRepository(gdb)

	got, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Name)
	assert.Equal(t, "30.25", got.Price.String())
	assert.Equal(t, int64(3), got.Stock)

	locked, err := r.FindByIDForUpdate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, locked.ID)

	_, err = r.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestProductGorm_CategoryQueries(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	dbtest.SeedProduct(t, gdb, "Sofa", "300", "home", 1)
	dbtest.SeedProduct(t, gdb, "Phone", "500", "electronics", 1)
	dbtest.SeedProduct(t, gdb, "Rug", "80", "home", 1)

	r := NewProductGormRepository(gdb)

	home, err := r.ListByCategory(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sofa", "Rug"}, productNames(home))

	none, err := r.ListByCategory(ctx, "garden")
	require.NoError(t, err)
	assert.Empty(t, none)

	cats, err := r.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "home"}, cats)
}
