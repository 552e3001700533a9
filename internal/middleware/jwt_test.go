package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/shop-backend/internal/utils"
)

func newGatedServer(v TokenVerifier) *echo.Echo {
	e := echo.New()
	g := e.Group("/api", JWTAuth(v, zerolog.Nop()))
	g.GET("/whoami", func(c echo.Context) error {
		id, ok := UserID(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, id)
	})
	return e
}

func doGet(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func TestJWTAuth(t *testing.T) {
	iss := utils.NewTokenIssuer("secret", time.Hour)
	e := newGatedServer(iss)

	valid, err := iss.Issue("user-1")
	require.NoError(t, err)
	foreign, err := utils.NewTokenIssuer("other", time.Hour).Issue("user-1")
	require.NoError(t, err)
	expired, err := utils.NewTokenIssuer("secret", time.Hour,
		utils.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })).Issue("user-1")
	require.NoError(t, err)

	t.Run("valid token attaches identity", func(t *testing.T) {
		rec := doGet(e, "Bearer "+valid.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Body.String())
	})

	for _, h := range []string{"", "Bearer", "Bearer "} {
		t.Run("no token "+h, func(t *testing.T) {
			rec := doGet(e, h)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, MsgTokenMissing, message(t, rec))
		})
	}

	invalid := map[string]string{
		"bad signature": "Bearer " + foreign.Token,
		"expired":       "Bearer " + expired.Token,
		"malformed":     "Bearer not.a.jwt",
		"other scheme":  "Basic dXNlcjpwdw==",
	}
	for name, h := range invalid {
		t.Run(name, func(t *testing.T) {
			rec := doGet(e, h)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, MsgTokenInvalid, message(t, rec))
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("Bearer abc extra"))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "", bearerToken(""))
}
