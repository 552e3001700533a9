package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/handler"
	"github.com/iliyamo/shop-backend/internal/middleware"
)

// RegisterCustomer registers the order endpoints under /api. Both require
// a valid session token; the handler scopes every read and write to the
// token's user.
func RegisterCustomer(e *echo.Echo, h *handler.OrderHandler, v middleware.TokenVerifier) {
	g := e.Group("/api/orders", middleware.JWTAuth(v, h.Log))
	g.GET("", h.List)
	g.POST("", h.Create)
}
