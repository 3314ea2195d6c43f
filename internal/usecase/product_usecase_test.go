package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront/internal/cache"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mock: ProductRepository
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProductRepoMock) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	args := m.Called(ctx, category)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]string)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in ProductUsecase tests")
}

var _ repo.ProductRepository = (*ProductRepoMock)(nil)

func newRedisCache(t *testing.T) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(cache.NewClient(mr.Addr(), "", 0), "test", time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func money(s string) *model.Money {
	m := model.MustMoney(s)
	return &m
}

// =====================
// List
// =====================

func TestProductUsecase_ListProducts_Validation(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock), nil, nil)
	ctx := context.Background()

	cases := []struct {
		in  usecase.ListProductsInput
		msg string
	}{
		{usecase.ListProductsInput{Sort: "random"}, "invalid sort"},
		{usecase.ListProductsInput{MinPrice: money("-1")}, "min_price must be >= 0"},
		{usecase.ListProductsInput{MaxPrice: money("-1")}, "max_price must be >= 0"},
		{usecase.ListProductsInput{MinPrice: money("10"), MaxPrice: money("5")}, "min_price must be <= max_price"},
	}
	for _, tc := range cases {
		_, err := uc.ListProducts(ctx, tc.in)
		assertHTTPError(t, err, http.StatusBadRequest, tc.msg)
	}
}

func TestProductUsecase_ListProducts_PassesQuery(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, nil, nil)

	q := repo.ProductListQuery{Q: "shirt", Category: "clothing", MinPrice: money("1"), Sort: "price_asc"}
	pRepo.On("List", mock.Anything, q).Return([]model.Product{{ID: 1, Name: "Red Shirt"}}, nil)

	got, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{
		Q: "  shirt ", Category: "clothing", MinPrice: money("1"), Sort: "price_asc",
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	pRepo.AssertExpectations(t)
}

func TestProductUsecase_ListProducts_CachedAfterFirstRead(t *testing.T) {
	ctx := context.Background()
	pRepo := new(ProductRepoMock)
	c, _ := newRedisCache(t)
	uc := usecase.NewProductUsecase(pRepo, c, nil)

	pRepo.On("List", mock.Anything, repo.ProductListQuery{}).
		Return([]model.Product{{ID: 1, Name: "Mug", Price: model.MustMoney("12.50"), Stock: 4}}, nil).Once()

	first, err := uc.ListProducts(ctx, usecase.ListProductsInput{})
	require.NoError(t, err)
	second, err := uc.ListProducts(ctx, usecase.ListProductsInput{})
	require.NoError(t, err)

	assert.Equal(t, first[0].Name, second[0].Name)
	assert.Equal(t, "12.50", second[0].Price.String())
	assert.Equal(t, int64(4), second[0].Stock)
	pRepo.AssertNumberOfCalls(t, "List", 1)
}

func TestProductUsecase_CacheErrorFallsBackToDB(t *testing.T) {
	pRepo := new(ProductRepoMock)
	c, mr := newRedisCache(t)
	mr.Close()
	uc := usecase.NewProductUsecase(pRepo, c, nil)

	pRepo.On("ListCategories", mock.Anything).Return([]string{"home"}, nil)

	got, err := uc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, got)
}

func TestProductUsecase_DBError(t *testing.T) {
	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, nil, nil)

	pRepo.On("ListByCategory", mock.Anything, "home").Return(nil, errors.New("db down"))

	_, err := uc.ListByCategory(context.Background(), "home")
	assertHTTPError(t, err, http.StatusInternalServerError, "db error")

	_, err = uc.ListByCategory(context.Background(), " ")
	assertHTTPError(t, err, http.StatusBadRequest, "invalid category")
}

// =====================
// Detail / invalidation
// =====================

func TestProductUsecase_GetProduct(t *testing.T) {
	ctx := context.Background()
	pRepo := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(pRepo, nil, nil)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "Lamp"}, nil)
	pRepo.On("FindByID", mock.Anything, int64(2)).Return(model.Product{}, repo.ErrNotFound)

	p, err := uc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Name)

	_, err = uc.GetProduct(ctx, 2)
	assertHTTPError(t, err, http.StatusNotFound, "product not found")

	_, err = uc.GetProduct(ctx, 0)
	assertHTTPError(t, err, http.StatusBadRequest, "invalid product id")
}

func TestProductUsecase_InvalidateProducts(t *testing.T) {
	ctx := context.Background()
	pRepo := new(ProductRepoMock)
	c, mr := newRedisCache(t)
	uc := usecase.NewProductUsecase(pRepo, c, nil)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Stock: 5}, nil).Once()
	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Stock: 3}, nil).Once()
	pRepo.On("List", mock.Anything, repo.ProductListQuery{}).Return([]model.Product{{ID: 1}}, nil)
	pRepo.On("ListCategories", mock.Anything).Return([]string{"home"}, nil)

	_, err := uc.GetProduct(ctx, 1)
	require.NoError(t, err)
	_, err = uc.ListProducts(ctx, usecase.ListProductsInput{})
	require.NoError(t, err)
	_, err = uc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, mr.Keys(), 3)

	uc.InvalidateProducts(ctx, []int64{1})

	// カテゴリ一覧だけ残る
	assert.Equal(t, []string{"test:" + cache.ProductCategoriesKey}, mr.Keys())

	p, err := uc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Stock)
}
