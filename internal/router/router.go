package router // package router defines how HTTP routes are registered for the API

import (
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/shop-backend/internal/handler"
	"github.com/iliyamo/shop-backend/internal/logger"
	"github.com/iliyamo/shop-backend/internal/middleware"
	"github.com/iliyamo/shop-backend/internal/storage"
	"github.com/iliyamo/shop-backend/internal/validation"
)

// Deps is everything the HTTP layer needs. Limiter and Cache may be nil;
// UploadDir may be empty to skip static file serving.
type Deps struct {
	Auth     *handler.AuthHandler
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
	Verifier middleware.TokenVerifier
	Limiter  echo.MiddlewareFunc
	Cache    *middleware.ResponseCache
	Health   []handler.HealthCheck

	UploadDir      string
	CORSOrigins    []string
	TrustedProxies []*net.IPNet
	Log            zerolog.Logger
}

// New builds the Echo instance with global middleware and every route.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.IPExtractor = ipExtractor(d.TrustedProxies)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(logger.RequestLogger(d.Log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	if d.UploadDir != "" {
		// uploaded product images, e.g. /uploads/1712345678901.png
		e.Static(storage.PublicPrefix, d.UploadDir)
	}

	RegisterRoutes(e, d.Health...)
	RegisterAuth(e, d.Auth, d.Verifier, d.Limiter)
	RegisterCatalog(e, d.Products, d.Cache)
	RegisterCustomer(e, d.Orders, d.Verifier)
	return e
}

// ipExtractor decides what c.RealIP returns, and with it the rate-limit key.
// Forwarding headers are only honoured when the peer is a listed proxy.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := make([]echo.TrustOption, 0, len(trusted)+3)
	opts = append(opts, echo.TrustLoopback(false), echo.TrustLinkLocal(false), echo.TrustPrivateNet(false))
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// RegisterRoutes registers routes that do not belong to the API itself.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, checks ...handler.HealthCheck) {
	e.GET("/healthz", handler.Health(checks...))
}

// RegisterAuth registers the credential endpoints. Register and login are
// public and rate limited when a limiter is given; the profile requires a
// valid session token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, v middleware.TokenVerifier, limiter echo.MiddlewareFunc) {
	var mws []echo.MiddlewareFunc
	if limiter != nil {
		mws = append(mws, limiter)
	}
	g := e.Group("/api")
	g.POST("/register", a.Register, mws...)
	g.POST("/login", a.Login, mws...)

	g.GET("/profile", a.Profile, middleware.JWTAuth(v, a.Log))
}
