package model

// 価格は注文確定時点の値で固定
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`
	Price     Money `gorm:"type:decimal(12,2);not null" json:"price"`
}

// 商品とjoinした注文明細
type OrderItemLine struct {
	ID       int64  `json:"id"`
	OrderID  int64  `json:"-"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Quantity int64  `json:"quantity"`
	Price    Money  `json:"price"`
}
