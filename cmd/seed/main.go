package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	"storefront/internal/infra/repository"
	"storefront/internal/logger"
	domainrepo "storefront/internal/repository"

	"go.uber.org/zap"
)

// 開発用の初期商品
var products = []model.Product{
	{Name: "Classic White T-Shirt", Description: "100% cotton crew neck", Price: model.MustMoney("19.99"), Category: "clothing", Stock: 50, ImageURL: "/images/white-tshirt.jpg"},
	{Name: "Denim Jacket", Description: "Stonewashed denim", Price: model.MustMoney("79.50"), Category: "clothing", Stock: 20, ImageURL: "/images/denim-jacket.jpg"},
	{Name: "Wireless Headphones", Description: "Noise cancelling, 30h battery", Price: model.MustMoney("149.00"), Category: "electronics", Stock: 15, ImageURL: "/images/headphones.jpg"},
	{Name: "Smart Watch", Description: "Heart rate and GPS", Price: model.MustMoney("199.99"), Category: "electronics", Stock: 10, ImageURL: "/images/smart-watch.jpg"},
	{Name: "Ceramic Mug", Description: "350ml, dishwasher safe", Price: model.MustMoney("12.50"), Category: "home", Stock: 100, ImageURL: "/images/mug.jpg"},
	{Name: "Desk Lamp", Description: "LED with dimmer", Price: model.MustMoney("34.90"), Category: "home", Stock: 25, ImageURL: "/images/desk-lamp.jpg"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.LogMode, logger.Options{Dir: cfg.LogDir, Filename: cfg.LogFile})
	defer logger.Sync()

	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatal("connect database failed", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	ctx := context.Background()
	productRepo := repository.NewProductGormRepository(gormDB)

	// 既に商品があれば何もしない
	existing, err := productRepo.List(ctx, domainrepo.ProductListQuery{})
	if err != nil {
		log.Fatal("list products failed", zap.Error(err))
	}
	if len(existing) > 0 {
		log.Info("products already seeded", zap.Int("count", len(existing)))
		return
	}

	for _, p := range products {
		created, err := productRepo.Create(ctx, p)
		if err != nil {
			log.Fatal("create product failed", zap.Error(err), zap.String("name", p.Name))
		}
		log.Info("product created", zap.Int64("id", created.ID), zap.String("name", created.Name))
	}
}
