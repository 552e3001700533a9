package middleware // package middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Client messages for the two rejection states of the gate.
const (
	MsgTokenMissing = "Token não fornecido."
	MsgTokenInvalid = "Token inválido ou expirado."
)

// TokenVerifier validates a raw session token and returns the user ID it
// was issued for.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// JWTAuth returns an Echo middleware guarding protected routes. The token is
// the second space-separated part of the Authorization header
// ("Bearer <token>"). No token yields 401; a token that fails verification
// (malformed, bad signature or expired) yields 403. On success the user ID
// is stored under UserIDKey. The user is not looked up in the store.
func JWTAuth(v TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": MsgTokenMissing})
			}
			uid, err := v.Verify(raw)
			if err != nil {
				log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
				return c.JSON(http.StatusForbidden, echo.Map{"message": MsgTokenInvalid})
			}
			c.Set(UserIDKey, uid)
			return next(c)
		}
	}
}

// bearerToken extracts the credential part of an Authorization header. The
// scheme word is not checked; "Basic xyz" yields "xyz", which then fails
// verification with 403.
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
