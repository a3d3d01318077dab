package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/config"
)

func TestConnect_SQLiteAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bookstore.db")

	gdb, err := Connect(config.Config{DBDriver: config.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, Migrate(gdb))
	// 2回目も壊れない
	require.NoError(t, Migrate(gdb))

	for _, table := range []string{"users", "books", "cart_entries", "orders", "order_items", "inventory_adjustments"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}
