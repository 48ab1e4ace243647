package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/cache"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedProductRepository serves catalog reads from Redis. It is never used
// on the locking write path; stock under lock always comes from Postgres.
type CachedProductRepository struct {
	repo   *ProductRepository
	cache  Cache
	logger *zap.Logger
}

func NewCachedProductRepository(repo *ProductRepository, c Cache, logger *zap.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		repo:   repo,
		cache:  c,
		logger: logger,
	}
}

// Cache key helpers
func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func allProductsKey() string {
	return "products:all"
}

// GetAll returns all products (with caching)
func (r *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	cacheKey := allProductsKey()

	var products []models.Product
	err := r.cache.Get(ctx, cacheKey, &products)
	if err == nil {
		r.logger.Debug("Cache hit", zap.String("key", cacheKey))
		return products, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		r.logger.Warn("Cache error", zap.String("key", cacheKey), zap.Error(err))
	}

	products, err = r.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, products); err != nil {
		r.logger.Warn("Failed to cache products", zap.Error(err))
	}

	return products, nil
}

// GetByID returns a single product (with caching)
func (r *CachedProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	cacheKey := productKey(id)

	var product models.Product
	err := r.cache.Get(ctx, cacheKey, &product)
	if err == nil {
		r.logger.Debug("Cache hit", zap.String("key", cacheKey))
		return &product, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		r.logger.Warn("Cache error", zap.String("key", cacheKey), zap.Error(err))
	}

	p, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, p); err != nil {
		r.logger.Warn("Failed to cache product", zap.Int64("product_id", id), zap.Error(err))
	}

	return p, nil
}

// Create inserts a new product and invalidates the list entry
func (r *CachedProductRepository) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product, err := r.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, allProductsKey())
	return product, nil
}

func (r *CachedProductRepository) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*models.Product, error) {
	product, err := r.repo.UpdatePrice(ctx, id, price)
	if err != nil {
		return nil, err
	}

	r.Invalidate(ctx, id)
	return product, nil
}

// Invalidate drops every cached entry that includes the product.
func (r *CachedProductRepository) Invalidate(ctx context.Context, productID int64) {
	r.invalidate(ctx, productKey(productID), allProductsKey())
}

// InvalidateList drops the cached product list.
func (r *CachedProductRepository) InvalidateList(ctx context.Context) {
	r.invalidate(ctx, allProductsKey())
}

// ItemAdded drops the entries whose stock just changed.
func (r *CachedProductRepository) ItemAdded(ctx context.Context, event models.ItemAddedEvent) error {
	r.Invalidate(ctx, event.ProductID)
	return nil
}

func (r *CachedProductRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("Failed to invalidate cache", zap.Strings("keys", keys), zap.Error(err))
		return
	}
	r.logger.Debug("Cache invalidated", zap.Strings("keys", keys))
}
