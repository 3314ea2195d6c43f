package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartItemRepository interface {
	// 商品とjoinして返す
	ListLinesByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)
	// 同一商品はプラス
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error
	// ユーザーの行だけ更新（無ければErrNotFound）
	UpdateQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) error
	// ユーザーの行だけ削除（無ければErrNotFound）
	DeleteByID(ctx context.Context, userID int64, cartItemID int64) error
	ClearByUserID(ctx context.Context, userID int64) error
}
