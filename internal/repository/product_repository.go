package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Q        string
	Category string
	MinPrice *model.Money
	MaxPrice *model.Money
	Sort     string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	// 行ロック付き（Tx内で使う）
	FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error)
	ListByCategory(ctx context.Context, category string) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
}
