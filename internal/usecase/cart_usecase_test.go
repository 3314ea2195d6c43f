package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// Mock: CartItemRepository
// =====================

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListLinesByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	lines, _ := args.Get(0).([]model.CartLine)
	return lines, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error {
	return m.Called(ctx, userID, productID, addQty).Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) error {
	return m.Called(ctx, userID, cartItemID, qty).Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, userID int64, cartItemID int64) error {
	return m.Called(ctx, userID, cartItemID).Error(0)
}

func (m *CartItemRepoMock) ClearByUserID(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

var _ repo.CartItemRepository = (*CartItemRepoMock)(nil)

func TestCartUsecase_AddItem(t *testing.T) {
	ctx := context.Background()
	cRepo := new(CartItemRepoMock)
	pRepo := new(ProductRepoMock)
	uc := usecase.NewCartUsecase(cRepo, pRepo, nil)

	pRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Product{ID: 3}, nil)
	pRepo.On("FindByID", mock.Anything, int64(4)).Return(model.Product{}, repo.ErrNotFound)
	cRepo.On("UpsertByUserAndProduct", mock.Anything, int64(1), int64(3), int64(2)).Return(nil)

	require.NoError(t, uc.AddItem(ctx, 1, usecase.AddCartInput{ProductID: 3, Quantity: 2}))

	err := uc.AddItem(ctx, 1, usecase.AddCartInput{ProductID: 4, Quantity: 1})
	assertHTTPError(t, err, http.StatusNotFound, "product not found")

	err = uc.AddItem(ctx, 1, usecase.AddCartInput{ProductID: 3, Quantity: 0})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid quantity")

	err = uc.AddItem(ctx, 1, usecase.AddCartInput{ProductID: 0, Quantity: 1})
	assertHTTPError(t, err, http.StatusBadRequest, "invalid product_id")

	cRepo.AssertNumberOfCalls(t, "UpsertByUserAndProduct", 1)
}

func TestCartUsecase_UpdateItem(t *testing.T) {
	ctx := context.Background()
	cRepo := new(CartItemRepoMock)
	uc := usecase.NewCartUsecase(cRepo, new(ProductRepoMock), nil)

	cRepo.On("UpdateQuantity", mock.Anything, int64(1), int64(10), int64(5)).Return(nil)
	cRepo.On("UpdateQuantity", mock.Anything, int64(1), int64(11), int64(5)).Return(repo.ErrNotFound)

	require.NoError(t, uc.UpdateItem(ctx, 1, 10, 5))

	err := uc.UpdateItem(ctx, 1, 11, 5)
	assertHTTPError(t, err, http.StatusNotFound, "cart item not found")
}

func TestCartUsecase_UpdateItemNonPositiveRemovesLine(t *testing.T) {
	ctx := context.Background()
	cRepo := new(CartItemRepoMock)
	uc := usecase.NewCartUsecase(cRepo, new(ProductRepoMock), nil)

	cRepo.On("DeleteByID", mock.Anything, int64(1), int64(10)).Return(nil)

	require.NoError(t, uc.UpdateItem(ctx, 1, 10, 0))
	require.NoError(t, uc.UpdateItem(ctx, 1, 10, -3))

	cRepo.AssertNumberOfCalls(t, "DeleteByID", 2)
	cRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_RemoveItem(t *testing.T) {
	ctx := context.Background()
	cRepo := new(CartItemRepoMock)
	uc := usecase.NewCartUsecase(cRepo, new(ProductRepoMock), nil)

	cRepo.On("DeleteByID", mock.Anything, int64(2), int64(10)).Return(repo.ErrNotFound)
	cRepo.On("DeleteByID", mock.Anything, int64(2), int64(11)).Return(errors.New("db down"))

	assertHTTPError(t, uc.RemoveItem(ctx, 2, 10), http.StatusNotFound, "cart item not found")
	assertHTTPError(t, uc.RemoveItem(ctx, 2, 11), http.StatusInternalServerError, "db error")
	assertHTTPError(t, uc.RemoveItem(ctx, 2, 0), http.StatusBadRequest, "invalid id")
}

func TestCartUsecase_Summary(t *testing.T) {
	cRepo := new(CartItemRepoMock)
	uc := usecase.NewCartUsecase(cRepo, new(ProductRepoMock), nil)

	cRepo.On("ListLinesByUserID", mock.Anything, int64(1)).Return([]model.CartLine{
		{ID: 1, Quantity: 2, Price: model.MustMoney("10.00")},
		{ID: 2, Quantity: 1, Price: model.MustMoney("5.00")},
	}, nil)

	s, err := uc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, "25.00", s.Total.String())
}

func TestSummarizeCart_Empty(t *testing.T) {
	s := usecase.SummarizeCart(nil)
	assert.Equal(t, int64(0), s.Count)
	assert.Equal(t, "0.00", s.Total.String())
}
