package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/handler"
	"github.com/iliyamo/shop-backend/internal/middleware"
)

// RegisterCatalog registers the product endpoints under /api. Neither
// requires a token. The listing is served through the response cache when
// one is configured; creating a product purges it.
func RegisterCatalog(e *echo.Echo, p *handler.ProductHandler, cache *middleware.ResponseCache) {
	g := e.Group("/api")

	// ---- Products ----
	g.GET("/products", p.List, cache.Middleware())
	g.POST("/products", p.Create)
}
