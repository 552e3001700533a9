package handler // HTTP handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheck pings one backing service. Name is reported in the response.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Health reports liveness for load balancers and monitors. With no checks
// it always answers 200 {"status":"ok"}; otherwise every check must pass
// within two seconds or the response is 503 listing the failing ones.
func Health(checks ...HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		failed := map[string]string{}
		for _, hc := range checks {
			if err := hc.Ping(ctx); err != nil {
				failed[hc.Name] = err.Error()
			}
		}
		if len(failed) > 0 {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "failed": failed})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}
