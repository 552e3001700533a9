package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/shop-backend/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[{"title":"Book"}]`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `[{"title":"Book"}]`, string(body))
}

func TestDecodePayload_Corrupt(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0})
	assert.False(t, ok)

	// header length pointing past the end
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}

func TestCacheKeyFrom(t *testing.T) {
	e := echo.New()
	mk := func(target string) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/api/products")
		return c
	}
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, mk("/api/products?page=1"))
	b := cacheKeyFrom(cfg, mk("/api/products?page=2"))
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, a)

	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, mk("/api/products?page=1")), cacheKeyFrom(cfg, mk("/api/products?page=2")))
}

func TestResponseCache_DisabledWithoutRedis(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil, zerolog.Nop())

	e := echo.New()
	e.GET("/api/products", func(c echo.Context) error { return c.JSON(http.StatusOK, []string{}) }, rc.Middleware())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, rc.Purge(context.Background()))
}

func TestCaptureWriter_Limit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("def"))
	require.NoError(t, err)

	assert.Equal(t, "abcd", cw.buf.String())
	assert.EqualValues(t, 6, cw.size)
	assert.Equal(t, "abcdef", rec.Body.String())
}
