package server

import (
	"context"
	"net/http"

	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type healthResponse struct {
	Status string `json:"status"`
}

// APIは/api配下、運用系はルート直下
func RegisterRoutes(e *echo.Echo, h Handlers, authMW echo.MiddlewareFunc, ready func(ctx context.Context) error) {
	e.GET("/health", func(c echo.Context) error {
		if ready != nil {
			if err := ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, handler.ErrorResponse{Message: "database unavailable"})
			}
		}
		return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	h.Product.RegisterRoutes(api)
	h.Auth.RegisterRoutes(api, authMW)
	h.Cart.RegisterRoutes(api, authMW)
	h.Order.RegisterRoutes(api, authMW)
}
