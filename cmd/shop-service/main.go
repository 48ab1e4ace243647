package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/cache"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/config"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/consumer"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/db"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/discovery"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/handlers"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/messaging"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/observability"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/publisher"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, config.ServiceName)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Shop service stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracingSDK(ctx, observability.TracingConfig{
		Endpoint:       cfg.OtelEndpoint,
		AuthHeader:     cfg.OtelAuthHeader,
		ServiceName:    config.ServiceName,
		ServiceVersion: config.ServiceVersion,
	})
	if err != nil {
		logger.Error("Failed to setup OpenTelemetry tracing", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.AutoMigrate {
		if err := db.CreateTables(ctx, database.Conn); err != nil {
			return err
		}
		logger.Info("Schema ready")
	}

	productRepo := db.NewProductRepository(database)
	orderRepo := db.NewOrderRepository(database)

	// Product reads go through Redis when configured
	var catalog handlers.ProductCatalog = productRepo
	var notifier service.ItemNotifier
	var cachedRepo *db.CachedProductRepository
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.CacheTTL, logger)
		if err != nil {
			return err
		}
		defer redisCache.Close()

		cachedRepo = db.NewCachedProductRepository(productRepo, redisCache, logger)
		catalog = cachedRepo
		notifier = cachedRepo
	}

	// Committed adds become events when RabbitMQ is configured
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := messaging.NewRabbitMQ(cfg.RabbitMQURL, logger)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()

		itemPublisher, err := publisher.NewItemPublisher(rabbitMQ)
		if err != nil {
			return err
		}
		notifier = itemPublisher

		if cachedRepo != nil {
			messages, err := rabbitMQ.Consume(publisher.ItemAddedQueue)
			if err != nil {
				return err
			}
			go consumer.NewCacheConsumer(cachedRepo, logger).Run(ctx, messages)
		}
	}

	itemService := service.NewOrderItemService(database, productRepo, orderRepo, notifier, logger)

	orderHandler := handlers.NewOrderHandler(itemService, orderRepo, logger)
	productHandler := handlers.NewProductHandler(catalog, logger)
	systemHandler := handlers.NewSystemHandler(database, func(ctx context.Context) (bool, error) {
		seeded, err := db.Seed(ctx, database)
		if seeded && cachedRepo != nil {
			cachedRepo.InvalidateList(ctx)
		}
		return seeded, err
	}, logger)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(orderHandler, productHandler, systemHandler, cfg.RequestTimeout, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.ConsulAddr != "" {
		consul, err := discovery.NewConsulClient(cfg.ConsulAddr, logger)
		if err != nil {
			return err
		}
		err = consul.Register(discovery.ServiceConfig{
			Name: config.ServiceName,
			ID:   cfg.ServiceID,
			Port: cfg.HTTPPort,
			Tags: []string{"api", "orders", "products"},
		})
		if err != nil {
			return err
		}
		defer consul.Deregister(cfg.ServiceID)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Shop service starting", zap.Int("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
