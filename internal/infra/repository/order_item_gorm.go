package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	return nil
}

// 複数注文の明細をまとめて取る（N+1を避ける）
func (r *OrderItemGormRepository) ListLinesByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItemLine, error) {
	out := make(map[int64][]model.OrderItemLine, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	var lines []model.OrderItemLine
	err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Select("p.id, oi.order_id, p.name, p.image_url, oi.quantity, oi.price").
		Joins("JOIN products p ON oi.product_id = p.id").
		Where("oi.order_id IN ?", orderIDs).
		Order("oi.id asc").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}

	for _, l := range lines {
		out[l.OrderID] = append(out[l.OrderID], l)
	}
	return out, nil
}
