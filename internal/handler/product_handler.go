package handler

import (
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.list)
	g.GET("/products/categories", h.categories)
	g.GET("/products/category/:category", h.byCategory)
	g.GET("/products/:id", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	minPrice, ok := parseMoneyParam(c, "min_price")
	if !ok {
		return badRequest(c, "invalid min_price")
	}
	maxPrice, ok := parseMoneyParam(c, "max_price")
	if !ok {
		return badRequest(c, "invalid max_price")
	}

	items, err := h.uc.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Q:        c.QueryParam("q"),
		Category: c.QueryParam("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []model.Product{}
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) byCategory(c echo.Context) error {
	category, ok := categoryParam(c)
	if !ok {
		return badRequest(c, "invalid category")
	}

	items, err := h.uc.ListByCategory(c.Request().Context(), category)
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []model.Product{}
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) categories(c echo.Context) error {
	cats, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if cats == nil {
		cats = []string{}
	}

	return c.JSON(http.StatusOK, cats)
}

// RawPathでルーティングされるとエスケープされたまま届く
func categoryParam(c echo.Context) (string, bool) {
	v := c.Param("category")
	if c.Request().URL.RawPath == "" {
		return v, true
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", false
	}
	return decoded, true
}

// 空ならnil。数値でなければok=false
func parseMoneyParam(c echo.Context, name string) (*model.Money, bool) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, false
	}
	m := model.NewMoney(d)
	return &m, true
}
