package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/shop-backend/internal/model"
)

func listOrders(t *testing.T, ts *testServer, token string) []model.Order {
	t.Helper()
	rec := ts.do(http.MethodGet, "/api/orders", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out []model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestOrders_CreateAndList(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Ann", "ann@x.com", "pw1")
	token := ts.login(t, "ann@x.com", "pw1")

	assert.Empty(t, listOrders(t, ts, token))
	rec := ts.do(http.MethodGet, "/api/orders", "", token)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/orders", `{"items":[{"title":"Book","quantity":2}],"total":39.8}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Message string      `json:"message"`
		Order   model.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, msgOrderCreated, created.Message)
	assert.NotEmpty(t, created.Order.ID)
	assert.Equal(t, "1", created.Order.UserID)
	assert.Equal(t, model.OrderStatusProcessing, created.Order.Status)
	assert.Equal(t, []string{"Book (x2)"}, created.Order.Items)
	assert.Equal(t, 39.8, created.Order.Total)

	orders := listOrders(t, ts, token)
	require.Len(t, orders, 1)
	assert.Equal(t, created.Order.ID, orders[0].ID)
}

func TestOrders_OwnerComesFromToken(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Ann", "ann@x.com", "pw1")
	token := ts.login(t, "ann@x.com", "pw1")

	rec := ts.do(http.MethodPost, "/api/orders", `{"userId":"999","items":[{"title":"Pen","quantity":1}],"total":2}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "1", ts.orders.items[0].UserID)
}

func TestOrders_Incomplete(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Ann", "ann@x.com", "pw1")
	token := ts.login(t, "ann@x.com", "pw1")

	for _, body := range []string{
		`{"items":[],"total":10}`,
		`{"total":10}`,
		`{"items":[{"title":"Book","quantity":1}]}`,
		`{"items":[{"title":"Book","quantity":1}],"total":0}`,
		`{"items":[{"title":"Book","quantity":1}],"total":-5}`,
	} {
		rec := ts.do(http.MethodPost, "/api/orders", body, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, msgOrderIncomplete, decodeMap(t, rec)["message"], body)
	}
	assert.Empty(t, ts.orders.items)
	assert.Empty(t, ts.events.events)
}

func TestOrders_ItemsTakenAsSent(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Ann", "ann@x.com", "pw1")
	token := ts.login(t, "ann@x.com", "pw1")

	rec := ts.do(http.MethodPost, "/api/orders", `{"items":[{"title":"Book"}],"total":20}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = ts.do(http.MethodPost, "/api/orders", `{"items":[{"title":"","quantity":0}],"total":5}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, ts.orders.items, 2)
	assert.Equal(t, []string{"Book (x0)"}, ts.orders.items[0].Items)
	assert.Equal(t, []string{" (x0)"}, ts.orders.items[1].Items)
}

func TestOrders_RequireToken(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/api/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = ts.do(http.MethodPost, "/api/orders", `{"items":[{"title":"Pen","quantity":1}],"total":2}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, ts.orders.items)
}

func TestOrders_Isolation(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Ann", "ann@x.com", "pw1")
	ts.register(t, "Bob", "bob@x.com", "pw2")
	ann := ts.login(t, "ann@x.com", "pw1")
	bob := ts.login(t, "bob@x.com", "pw2")

	const perUser = 10
	var wg sync.WaitGroup
	for i := 0; i < perUser; i++ {
		for _, tok := range []string{ann, bob} {
			wg.Add(1)
			go func(tok string, i int) {
				defer wg.Done()
				body := fmt.Sprintf(`{"items":[{"title":"Item %d","quantity":1}],"total":%d}`, i, i+1)
				rec := ts.do(http.MethodPost, "/api/orders", body, tok)
				assert.Equal(t, http.StatusCreated, rec.Code)
			}(tok, i)
		}
	}
	wg.Wait()

	annOrders := listOrders(t, ts, ann)
	bobOrders := listOrders(t, ts, bob)
	require.Len(t, annOrders, perUser)
	require.Len(t, bobOrders, perUser)
	for _, o := range annOrders {
		assert.Equal(t, "1", o.UserID)
	}
	for _, o := range bobOrders {
		assert.Equal(t, "2", o.UserID)
	}
}

func TestOrders_NewestFirst(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Ann", "ann@x.com", "pw1")
	token := ts.login(t, "ann@x.com", "pw1")

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		ts.orderH.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		body := `{"items":[{"title":"` + title + `","quantity":1}],"total":1}`
		require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/orders", body, token).Code)
	}

	orders := listOrders(t, ts, token)
	require.Len(t, orders, 3)
	assert.Equal(t, []string{"third (x1)"}, orders[0].Items)
	assert.Equal(t, []string{"first (x1)"}, orders[2].Items)
	assert.True(t, orders[0].Date.After(orders[1].Date))
}

func TestOrders_EventPublished(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Ann", "ann@x.com", "pw1")
	token := ts.login(t, "ann@x.com", "pw1")

	rec := ts.do(http.MethodPost, "/api/orders", `{"items":[{"title":"Pen","quantity":3}],"total":6}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, ts.events.events, 1)
	ev := ts.events.events[0]
	assert.Equal(t, ts.orders.items[0].ID, ev.OrderID)
	assert.Equal(t, "1", ev.UserID)
	assert.Equal(t, []string{"Pen (x3)"}, ev.Items)
	assert.Equal(t, model.OrderStatusProcessing, ev.Status)

	// a failing broker never affects the response
	ts.events.err = errBoom
	rec = ts.do(http.MethodPost, "/api/orders", `{"items":[{"title":"Pen","quantity":1}],"total":2}`, token)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, ts.orders.items, 2)
}

func TestOrders_StoreFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Ann", "ann@x.com", "pw1")
	token := ts.login(t, "ann@x.com", "pw1")
	ts.orders.err = errBoom

	rec := ts.do(http.MethodPost, "/api/orders", `{"items":[{"title":"Pen","quantity":1}],"total":2}`, token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgCreateOrder, decodeMap(t, rec)["message"])
	assert.NotContains(t, rec.Body.String(), "boom")

	rec = ts.do(http.MethodGet, "/api/orders", "", token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgListOrders, decodeMap(t, rec)["message"])
	assert.Empty(t, ts.events.events)
}

func TestScenario_RegisterLoginProfileOrder(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Ann", "a@x.com", "pw123456")
	token := ts.login(t, "a@x.com", "pw123456")

	rec := ts.do(http.MethodGet, "/api/profile", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeMap(t, rec)
	assert.Equal(t, "Ann", profile["name"])
	assert.Equal(t, "a@x.com", profile["email"])
	assert.NotContains(t, profile, "password")

	rec = ts.do(http.MethodPost, "/api/orders", `{"items":[{"title":"Book","quantity":1}],"total":20}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	order, ok := decodeMap(t, rec)["order"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Book (x1)"}, order["items"])
	assert.EqualValues(t, 20, order["total"])
	assert.Equal(t, "Processando", order["status"])
}
