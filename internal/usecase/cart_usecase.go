package usecase

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// CartUsecase は /cart の業務ロジック
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	log          *zap.Logger
}

func NewCartUsecase(cartItemRepo repo.CartItemRepository, productRepo repo.ProductRepository, log *zap.Logger) *CartUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		log:          log,
	}
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

// カートのバッジ表示用
type CartSummary struct {
	Count int64       `json:"count"`
	Total model.Money `json:"total"`
}

func (u *CartUsecase) ListItems(ctx context.Context, userID int64) ([]model.CartLine, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	lines, err := u.cartItemRepo.ListLinesByUserID(ctx, userID)
	if err != nil {
		u.log.Error("list cart failed", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return lines, nil
}

// 同一商品は数量加算
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartInput) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	if _, err := u.productRepo.FindByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		u.log.Error("find product failed", zap.Error(err), zap.Int64("product_id", in.ProductID))
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.UpsertByUserAndProduct(ctx, userID, in.ProductID, in.Quantity); err != nil {
		u.log.Error("add cart item failed", zap.Error(err), zap.Int64("user_id", userID))
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 数量をそのまま置き換える。0以下なら行ごと削除
func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, cartItemID int64, quantity int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if quantity <= 0 {
		return u.RemoveItem(ctx, userID, cartItemID)
	}

	err := u.cartItemRepo.UpdateQuantity(ctx, userID, cartItemID, quantity)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		u.log.Error("update cart item failed", zap.Error(err), zap.Int64("cart_item_id", cartItemID))
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 他人の行は見つからない扱い
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.cartItemRepo.DeleteByID(ctx, userID, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		u.log.Error("remove cart item failed", zap.Error(err), zap.Int64("cart_item_id", cartItemID))
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) Summary(ctx context.Context, userID int64) (CartSummary, error) {
	lines, err := u.ListItems(ctx, userID)
	if err != nil {
		return CartSummary{}, err
	}
	return SummarizeCart(lines), nil
}

// 件数は数量の合計、合計金額は単価×数量
func SummarizeCart(lines []model.CartLine) CartSummary {
	out := CartSummary{Total: model.MustMoney("0")}
	for _, l := range lines {
		out.Count += l.Quantity
		out.Total = out.Total.Plus(l.Price.Times(l.Quantity))
	}
	return out
}
