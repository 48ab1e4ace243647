package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/cache"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
)

func newCachedRepo(t *testing.T) (*CachedProductRepository, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()

	database, mock := newMock(t)
	mr := miniredis.RunT(t)

	redisCache, err := cache.NewRedisCache(context.Background(), mr.Addr(), time.Minute, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { redisCache.Close() })

	return NewCachedProductRepository(NewProductRepository(database), redisCache, zap.NewNop()), mock, mr
}

func TestCachedProductRepository_GetByIDReadsThrough(t *testing.T) {
	repo, mock, mr := newCachedRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`FROM products WHERE id = \$1`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(1, "Phone X", "999.00", 10, nil, time.Now()))

	first, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, mr.Exists("product:1"))

	// second read must not hit the database
	second, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.Stock, second.Stock)
	assert.True(t, first.Price.Equal(second.Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedProductRepository_ItemAddedInvalidates(t *testing.T) {
	repo, _, mr := newCachedRepo(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("product:1", `{"id":1}`))
	require.NoError(t, mr.Set("product:2", `{"id":2}`))
	require.NoError(t, mr.Set("products:all", `[]`))

	require.NoError(t, repo.ItemAdded(ctx, models.ItemAddedEvent{ProductID: 1}))

	assert.False(t, mr.Exists("product:1"))
	assert.False(t, mr.Exists("products:all"))
	assert.True(t, mr.Exists("product:2"))
}

func TestCachedProductRepository_UpdatePriceInvalidates(t *testing.T) {
	repo, mock, mr := newCachedRepo(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("product:3", `{"id":3}`))

	mock.ExpectQuery(`UPDATE products SET price`).
		WithArgs(decimal.RequireFromString("5.00"), 3).
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(3, "Cable", "5.00", 1, nil, time.Now()))

	p, err := repo.UpdatePrice(ctx, 3, decimal.RequireFromString("5.00"))
	require.NoError(t, err)
	assert.Equal(t, "5.00", p.Price.StringFixed(2))
	assert.False(t, mr.Exists("product:3"))
}

func TestCachedProductRepository_NotFoundIsNotCached(t *testing.T) {
	repo, mock, mr := newCachedRepo(t)

	mock.ExpectQuery(`FROM products WHERE id = \$1`).WithArgs(8).
		WillReturnRows(sqlmock.NewRows(productCols))

	_, err := repo.GetByID(context.Background(), 8)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("product:8"))
}
