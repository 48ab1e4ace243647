package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/config"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/db"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, "create-tables")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	database, err := db.NewPostgresDB(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := db.CreateTables(ctx, database.Conn); err != nil {
		logger.Fatal("Failed to create tables", zap.Error(err))
	}

	logger.Info("Tables created")
}
