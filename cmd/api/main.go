package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/app"
	"storefront/internal/broker"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/infra/db"
	"storefront/internal/logger"
	"storefront/internal/server"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.Init(cfg.LogMode, logger.Options{Dir: cfg.LogDir, Filename: cfg.LogFile})
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//Redis（REDIS_ADDRが空なら無効）
	catalogCache := cache.New(cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), "storefront", cfg.CatalogCacheTTL)
	defer catalogCache.Close()
	if err := catalogCache.Ping(ctx); err != nil {
		// キャッシュ無しでも動く
		log.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		catalogCache = cache.New(nil, "", 0)
	}

	//Kafka（KAFKA_BROKERSが空なら無効）
	producer := broker.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicOrders)
	defer producer.Close()

	e := app.NewHTTP(app.Deps{
		Config:   cfg,
		DB:       gormDB,
		Cache:    catalogCache,
		Producer: producer,
		Logger:   log,
	})

	log.Info("storefront starting",
		zap.String("env", cfg.AppEnv),
		zap.String("db_driver", cfg.DB.Driver),
		zap.Bool("catalog_cache", catalogCache.Enabled()),
		zap.Bool("order_events", len(cfg.KafkaBrokers) > 0),
	)

	//Server起動（SIGINT/SIGTERMでgraceful shutdown）
	return server.Start(ctx, e, cfg.Addr(), log)
}
