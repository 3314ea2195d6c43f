package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	// order_id -> 明細（商品名・画像つき）
	ListLinesByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItemLine, error)
}
