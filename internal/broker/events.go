package broker

import (
	"time"

	"storefront/internal/domain/model"
)

const EventTypeOrderPlaced = "order.placed"

type OrderItemData struct {
	ProductID int64       `json:"product_id"`
	Quantity  int64       `json:"quantity"`
	Price     model.Money `json:"price"`
}

// 注文確定後に流すイベント
type OrderPlacedEvent struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	Timestamp   time.Time       `json:"timestamp"`
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	TotalAmount model.Money     `json:"total_amount"`
	Items       []OrderItemData `json:"items"`
}
