package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/broker"
	"storefront/internal/domain/model"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 注文確定イベントの送信先（*broker.Producerが満たす）
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event broker.OrderPlacedEvent) error
}

// 在庫が変わった商品のキャッシュ破棄（*ProductUsecaseが満たす）
type CatalogInvalidator interface {
	InvalidateProducts(ctx context.Context, productIDs []int64)
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	publisher OrderEventPublisher
	catalog   CatalogInvalidator
	log       *zap.Logger
}

// DI（publisher/catalogはnilでもよい）
func NewOrderUsecase(tx repo.TransactionManager, publisher OrderEventPublisher, catalog CatalogInvalidator, log *zap.Logger) *OrderUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderUsecase{
		tx:        tx,
		publisher: publisher,
		catalog:   catalog,
		log:       log,
	}
}

type OrderLineInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type PlaceOrderInput struct {
	Items []OrderLineInput `json:"items"`
}

type PlaceOrderOutput struct {
	OrderID     int64             `json:"orderId"`
	TotalAmount model.Money       `json:"totalAmount"`
	Status      model.OrderStatus `json:"status"`
}

type OrderOutput struct {
	ID          int64                 `json:"id"`
	UserID      int64                 `json:"user_id"`
	TotalAmount model.Money           `json:"total_amount"`
	Status      model.OrderStatus     `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	Items       []model.OrderItemLine `json:"items"`
}

// PlaceOrder は注文ヘッダ・明細・在庫減算・在庫履歴・カート削除を1トランザクションで行う。
// どこかで失敗したら全部rollback
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if userID <= 0 {
		return PlaceOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		metrics.OrdersFailedTotal.WithLabelValues("validation").Inc()
		return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "items required")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			metrics.OrdersFailedTotal.WithLabelValues("validation").Inc()
			return PlaceOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
		}
	}

	var (
		out        PlaceOrderOutput
		orderItems []model.OrderItem
	)
	started := time.Now()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 商品は1回だけ読む（同じ商品が複数行あっても使い回す）
		products := make(map[int64]model.Product, len(in.Items))
		total := model.MustMoney("0")

		for _, it := range in.Items {
			p, ok := products[it.ProductID]
			if !ok {
				found, err := r.Products().FindByIDForUpdate(ctx, it.ProductID)
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusNotFound, "product not found")
				}
				if err != nil {
					return fmt.Errorf("find product %d: %w", it.ProductID, err)
				}
				p = found
				products[it.ProductID] = p
			}
			total = total.Plus(p.Price.Times(it.Quantity))
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:      userID,
			TotalAmount: total,
			Status:      model.OrderStatusPending,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// 価格は確定時点で固定
		orderItems = make([]model.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			orderItems = append(orderItems, model.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     products[it.ProductID].Price,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		for _, it := range in.Items {
			err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if errors.Is(err, repo.ErrInsufficientStock) {
				return NewHTTPError(http.StatusConflict, "insufficient stock")
			}
			if err != nil {
				return fmt.Errorf("decrease stock %d: %w", it.ProductID, err)
			}

			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ProductID: it.ProductID,
				OrderID:   orderID,
				Delta:     -it.Quantity,
				Reason:    fmt.Sprintf("order #%d", orderID),
			}); err != nil {
				return fmt.Errorf("create inventory adjustment: %w", err)
			}
		}

		if err := r.CartItems().ClearByUserID(ctx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		out = PlaceOrderOutput{
			OrderID:     orderID,
			TotalAmount: total,
			Status:      model.OrderStatusPending,
		}
		return nil
	})
	metrics.OrderCommitLatency.Observe(time.Since(started).Seconds())

	if err != nil {
		if he, ok := AsHTTPError(err); ok {
			metrics.OrdersFailedTotal.WithLabelValues(failureReason(he)).Inc()
			u.log.Info("order rejected", zap.Int64("user_id", userID), zap.String("reason", he.Message))
			return PlaceOrderOutput{}, err
		}
		metrics.OrdersFailedTotal.WithLabelValues("db").Inc()
		u.log.Error("order commit failed", zap.Error(err), zap.Int64("user_id", userID))
		return PlaceOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	metrics.OrdersPlacedTotal.Inc()
	u.log.Info("order placed",
		zap.Int64("order_id", out.OrderID),
		zap.Int64("user_id", userID),
		zap.String("total_amount", out.TotalAmount.String()),
		zap.Int("items", len(orderItems)),
	)

	u.afterCommit(ctx, userID, out, orderItems)
	return out, nil
}

// commit後の後始末。失敗してもリクエストは成功のまま
func (u *OrderUsecase) afterCommit(ctx context.Context, userID int64, out PlaceOrderOutput, items []model.OrderItem) {
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	data := make([]broker.OrderItemData, 0, len(items))
	for _, it := range items {
		data = append(data, broker.OrderItemData{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
		if _, ok := seen[it.ProductID]; !ok {
			seen[it.ProductID] = struct{}{}
			ids = append(ids, it.ProductID)
		}
	}

	if u.catalog != nil {
		u.catalog.InvalidateProducts(ctx, ids)
	}

	if u.publisher == nil {
		return
	}
	err := u.publisher.PublishOrderPlaced(ctx, broker.OrderPlacedEvent{
		EventID:     uuid.NewString(),
		EventType:   broker.EventTypeOrderPlaced,
		Timestamp:   time.Now(),
		OrderID:     out.OrderID,
		UserID:      userID,
		TotalAmount: out.TotalAmount,
		Items:       data,
	})
	if err != nil {
		u.log.Warn("publish order.placed failed", zap.Error(err), zap.Int64("order_id", out.OrderID))
	}
}

func failureReason(he *HTTPError) string {
	switch he.Status {
	case http.StatusNotFound:
		return "product_not_found"
	case http.StatusConflict:
		return "insufficient_stock"
	case http.StatusBadRequest:
		return "validation"
	default:
		return "other"
	}
}

// 新しい順。明細は商品名・画像つき
func (u *OrderUsecase) ListOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}
		lines, err := r.OrderItems().ListLinesByOrderIDs(ctx, ids)
		if err != nil {
			return err
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toOrderOutput(o, lines[o.ID]))
		}
		return nil
	})
	if err != nil {
		u.log.Error("list orders failed", zap.Error(err), zap.Int64("user_id", userID))
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return outs, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return err
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "order not found")
		}

		lines, err := r.OrderItems().ListLinesByOrderIDs(ctx, []int64{orderID})
		if err != nil {
			return err
		}
		out = toOrderOutput(o, lines[orderID])
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderOutput{}, err
		}
		u.log.Error("get order failed", zap.Error(err), zap.Int64("order_id", orderID))
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItemLine) OrderOutput {
	if items == nil {
		items = []model.OrderItemLine{}
	}
	return OrderOutput{
		ID:          o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		Items:       items,
	}
}
