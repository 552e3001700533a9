package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/shop-backend/internal/apperr"
	"github.com/iliyamo/shop-backend/internal/middleware"
	"github.com/iliyamo/shop-backend/internal/validation"
)

// dbTimeout bounds store calls made while serving a request.
const dbTimeout = 5 * time.Second

// respondError writes err as {"message": ...} with the status of its kind.
// Internal errors are logged with their cause; the client only sees the
// generic message.
func respondError(c echo.Context, log zerolog.Logger, err error) error {
	e := apperr.As(err)
	if e.Kind == apperr.KindInternal {
		log.Error().
			Err(e.Err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg(e.Message)
	}
	return c.JSON(e.Status(), echo.Map{"message": e.Message})
}

// invalidRequest rejects a body that failed binding or validation. The
// client gets msg; the failing fields only go to the debug log.
func invalidRequest(c echo.Context, log zerolog.Logger, err error, msg string) error {
	log.Debug().
		Err(err).
		Strs("fields", validation.Fields(err)).
		Str("path", c.Path()).
		Msg("request rejected")
	return respondError(c, log, apperr.Validation(msg))
}

// currentUser returns the identity attached by the auth gate. A missing
// identity means the route was mounted without the gate.
func currentUser(c echo.Context) (string, error) {
	uid, ok := middleware.UserID(c)
	if !ok {
		return "", apperr.Authentication(middleware.MsgTokenMissing)
	}
	return uid, nil
}
