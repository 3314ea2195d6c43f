package model

import "time"

// カートの明細
// 1ユーザー×1商品で1行（同じ商品は数量を足す）
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_cart_user_product;index" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart"
}

// 商品とjoinしたカート行
type CartLine struct {
	ID        int64  `json:"id"`
	Quantity  int64  `json:"quantity"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     Money  `json:"price"`
	ImageURL  string `json:"image_url"`
}
