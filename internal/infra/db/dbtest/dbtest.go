// Package dbtest はテスト用のインメモリSQLiteを用意する。
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/db"

	"gorm.io/gorm"
)

var seq atomic.Int64

// Open はテストごとに独立したDBを作り、マイグレーション済みで返す
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", seq.Add(1))

	// 接続1本にしてTx中の書き込みを直列化する
	gdb, err := db.Connect(config.DBConfig{Driver: "sqlite", SQLitePath: dsn, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// 商品を作る
func SeedProduct(t *testing.T, gdb *gorm.DB, name string, price string, category string, stock int64) model.Product {
	t.Helper()
	p := model.Product{
		Name:     name,
		Price:    model.MustMoney(price),
		Category: category,
		Stock:    stock,
		ImageURL: "/img/" + strings.ToLower(name) + ".png",
	}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return p
}

// ユーザーを作る（パスワードハッシュはダミー）
func SeedUser(t *testing.T, gdb *gorm.DB, email string) model.User {
	t.Helper()
	u := model.User{Name: "user " + email, Email: email, PasswordHash: "x", Address: "1 Main St"}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return u
}

// 現在の在庫
func Stock(t *testing.T, gdb *gorm.DB, productID int64) int64 {
	t.Helper()
	var p model.Product
	if err := gdb.First(&p, productID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return p.Stock
}

// テーブルの件数
func Count(t *testing.T, gdb *gorm.DB, m interface{}, where ...interface{}) int64 {
	t.Helper()
	var n int64
	q := gdb.Model(m)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}
