package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/cache"
	"storefront/internal/domain/model"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// 商品カタログのキャッシュ（*cache.Redisが満たす）
type CatalogCache interface {
	Enabled() bool
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
	DelPrefix(ctx context.Context, keyPrefix string) error
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	cache       CatalogCache
	log         *zap.Logger
}

// DI（cacheはnilでもよい）
func NewProductUsecase(productRepo repo.ProductRepository, catalogCache CatalogCache, log *zap.Logger) *ProductUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductUsecase{
		productRepo: productRepo,
		cache:       catalogCache,
		log:         log,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Q        string
	Category string
	MinPrice *model.Money
	MaxPrice *model.Money
	Sort     string
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	in.Q = strings.TrimSpace(in.Q)
	in.Category = strings.TrimSpace(in.Category)

	if len(in.Q) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return nil, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return nil, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(in.MaxPrice.Decimal) {
		return nil, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "price_asc", "price_desc", "name", "newest":
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	key := cache.ProductListKey(listCacheParams(in))
	return readThrough(ctx, u, key, func() ([]model.Product, error) {
		return u.productRepo.List(ctx, repo.ProductListQuery{
			Q:        in.Q,
			Category: in.Category,
			MinPrice: in.MinPrice,
			MaxPrice: in.MaxPrice,
			Sort:     in.Sort,
		})
	})
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := readThrough(ctx, u, cache.ProductKey(productID), func() (model.Product, error) {
		return u.productRepo.FindByID(ctx, productID)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	return p, err
}

// 該当なしは空配列
func (u *ProductUsecase) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	return readThrough(ctx, u, cache.ProductCategoryKey(category), func() ([]model.Product, error) {
		return u.productRepo.ListByCategory(ctx, category)
	})
}

// 重複なし・昇順
func (u *ProductUsecase) ListCategories(ctx context.Context) ([]string, error) {
	return readThrough(ctx, u, cache.ProductCategoriesKey, func() ([]string, error) {
		return u.productRepo.ListCategories(ctx)
	})
}

// 在庫が変わった商品のキャッシュを捨てる（失敗はログだけ）
func (u *ProductUsecase) InvalidateProducts(ctx context.Context, productIDs []int64) {
	if u.cache == nil || !u.cache.Enabled() || len(productIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, cache.ProductKey(id))
	}
	if err := u.cache.Del(ctx, keys...); err != nil {
		u.log.Warn("catalog cache delete failed", zap.Error(err), zap.Int64s("product_ids", productIDs))
	}
	// 一覧とカテゴリ別は在庫を含むので丸ごと
	for _, prefix := range []string{cache.ProductListPrefix, cache.ProductCategoryPrefix} {
		if err := u.cache.DelPrefix(ctx, prefix); err != nil {
			u.log.Warn("catalog cache delete failed", zap.Error(err), zap.String("prefix", prefix))
		}
	}
}

// キャッシュ→DBの順に読む。キャッシュの失敗はDBにフォールバック
func readThrough[T any](ctx context.Context, u *ProductUsecase, key string, load func() (T, error)) (T, error) {
	useCache := u.cache != nil && u.cache.Enabled()

	if useCache {
		var cached T
		found, err := u.cache.GetJSON(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.CatalogCacheRequests.WithLabelValues("error").Inc()
			u.log.Warn("catalog cache read failed", zap.Error(err), zap.String("key", key))
		case found:
			metrics.CatalogCacheRequests.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.CatalogCacheRequests.WithLabelValues("miss").Inc()
		}
	}

	v, err := load()
	if err != nil {
		var zero T
		if errors.Is(err, repo.ErrNotFound) {
			return zero, err
		}
		u.log.Error("catalog query failed", zap.Error(err), zap.String("key", key))
		return zero, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if useCache {
		if err := u.cache.SetJSON(ctx, key, v); err != nil {
			u.log.Warn("catalog cache write failed", zap.Error(err), zap.String("key", key))
		}
	}
	return v, nil
}

func listCacheParams(in ListProductsInput) url.Values {
	v := url.Values{}
	if in.Q != "" {
		v.Set("q", strings.ToLower(in.Q))
	}
	if in.Category != "" {
		v.Set("category", in.Category)
	}
	if in.MinPrice != nil {
		v.Set("min_price", in.MinPrice.String())
	}
	if in.MaxPrice != nil {
		v.Set("max_price", in.MaxPrice.String())
	}
	if in.Sort != "" {
		v.Set("sort", in.Sort)
	}
	return v
}
