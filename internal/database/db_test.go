package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordersDDL(t *testing.T) string {
	t.Helper()
	for _, stmt := range mysqlSchema {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS orders") {
			return stmt
		}
	}
	require.FailNow(t, "orders table missing from schema")
	return ""
}

func TestMySQLSchema_OrdersDoNotReferenceUsers(t *testing.T) {
	ddl := ordersDDL(t)
	assert.NotContains(t, strings.ToUpper(ddl), "FOREIGN KEY")
	assert.NotContains(t, strings.ToUpper(ddl), "REFERENCES")
	assert.Contains(t, ddl, "KEY idx_orders_user_date (user_id, date)")
}

func TestMySQLSchema_Idempotent(t *testing.T) {
	require.NotEmpty(t, mysqlSchema)
	for _, stmt := range mysqlSchema {
		assert.True(t, strings.HasPrefix(strings.TrimSpace(stmt), "CREATE TABLE IF NOT EXISTS"), stmt)
	}
}
