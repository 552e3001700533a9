package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/shop-backend/internal/apperr"
)

var now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func assertValidation(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.As(err).Kind)
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(" Ann ", "a@x.com", "$2a$hash", now)
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "a@x.com", u.Email)

	for _, args := range [][3]string{{"", "a@x.com", "h"}, {"Ann", "", "h"}, {"Ann", "a@x.com", ""}} {
		_, err := NewUser(args[0], args[1], args[2], now)
		assertValidation(t, err)
	}
}

func TestUserJSONOmitsPassword(t *testing.T) {
	b, err := json.Marshal(User{ID: "1", Name: "Ann", Email: "a@x.com", PasswordHash: "secret-hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret-hash")
	assert.NotContains(t, string(b), "password")
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct("Book", 19.9, "paperback", "/uploads/1.png", now)
	require.NoError(t, err)
	assert.Equal(t, 19.9, p.Price)

	_, err = NewProduct(" ", 1, "", "/uploads/1.png", now)
	assertValidation(t, err)
	_, err = NewProduct("Book", -1, "", "/uploads/1.png", now)
	assertValidation(t, err)
	_, err = NewProduct("Book", math.NaN(), "", "/uploads/1.png", now)
	assertValidation(t, err)
	_, err = NewProduct("Book", 1, "", "", now)
	assertValidation(t, err)
}

func TestValidateProductFields(t *testing.T) {
	assert.NoError(t, ValidateProductFields("Book", 0))
	assertValidation(t, ValidateProductFields("", 10))
	assertValidation(t, ValidateProductFields("Book", math.Inf(1)))
}

func TestNewOrder(t *testing.T) {
	t.Run("formats items and defaults status", func(t *testing.T) {
		o, err := NewOrder("u1", []OrderItem{{Title: "Book", Quantity: 1}, {Title: "Pen", Quantity: 3}}, 20, now)
		require.NoError(t, err)
		assert.Equal(t, []string{"Book (x1)", "Pen (x3)"}, o.Items)
		assert.Equal(t, OrderStatusProcessing, o.Status)
		assert.Equal(t, now, o.Date)
		assert.Equal(t, "u1", o.UserID)
	})

	t.Run("rejects incomplete orders", func(t *testing.T) {
		item := []OrderItem{{Title: "Book", Quantity: 1}}
		_, err := NewOrder("u1", nil, 20, now)
		assertValidation(t, err)
		_, err = NewOrder("u1", item, 0, now)
		assertValidation(t, err)
		_, err = NewOrder("u1", item, -5, now)
		assertValidation(t, err)
		_, err = NewOrder("", item, 5, now)
		assertValidation(t, err)
	})
}
