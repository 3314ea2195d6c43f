package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConnect_SQLiteAndMigrate(t *testing.T) {
	gdb, err := Connect(config.DBConfig{
		Driver:       "sqlite",
		SQLitePath:   "file:db_connect_test?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	for _, table := range []interface{}{&model.User{}, &model.Product{}, &model.CartItem{}, &model.Order{}, &model.OrderItem{}, &model.InventoryAdjustment{}} {
		assert.True(t, gdb.Migrator().HasTable(table))
	}
	assert.True(t, gdb.Migrator().HasTable("cart"))
}

func TestGormLogger_IgnoresRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	lg := newGormLogger(&buf)
	fc := func() (string, int64) { return "SELECT * FROM users WHERE email = 'x'", 0 }

	lg.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	lg.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(config.DBConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg := config.DBConfig{
		PostgresHost:     "db",
		PostgresPort:     5433,
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "shop",
		PostgresSSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=shop sslmode=disable", postgresDSN(cfg))

	cfg.URL = "postgres://x"
	assert.Equal(t, "postgres://x", postgresDSN(cfg))
}
