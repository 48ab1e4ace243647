package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/db"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
)

// These tests need a real Postgres because the guarantees under test come
// from its row locks. Set SHOP_TEST_DATABASE_URL to run them.

type fixture struct {
	database *db.PostgresDB
	svc      *OrderItemService
	clientID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := os.Getenv("SHOP_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("SHOP_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.NewPostgresDB(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.CreateTables(ctx, database.Conn))

	var clientID int64
	err = database.Conn.QueryRowContext(ctx,
		"INSERT INTO clients (name) VALUES ($1) RETURNING id", "client-"+uuid.NewString(),
	).Scan(&clientID)
	require.NoError(t, err)

	svc := NewOrderItemService(
		database,
		db.NewProductRepository(database),
		db.NewOrderRepository(database),
		nil,
		zap.NewNop(),
	)
	return &fixture{database: database, svc: svc, clientID: clientID}
}

func (f *fixture) product(t *testing.T, price string, stock int) int64 {
	t.Helper()
	var id int64
	err := f.database.Conn.QueryRow(
		"INSERT INTO products (name, price, stock) VALUES ($1, $2, $3) RETURNING id",
		"product-"+uuid.NewString(), decimal.RequireFromString(price), stock,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *fixture) order(t *testing.T, status models.OrderStatus) int64 {
	t.Helper()
	var id int64
	err := f.database.Conn.QueryRow(
		"INSERT INTO orders (client_id, status) VALUES ($1, $2) RETURNING id", f.clientID, status,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *fixture) stock(t *testing.T, productID int64) int {
	t.Helper()
	var stock int
	require.NoError(t, f.database.Conn.QueryRow("SELECT stock FROM products WHERE id = $1", productID).Scan(&stock))
	return stock
}

// lines returns the number of lines for the pair and their total quantity.
func (f *fixture) lines(t *testing.T, orderID, productID int64) (int, int) {
	t.Helper()
	var count, quantity int
	err := f.database.Conn.QueryRow(
		"SELECT count(*), COALESCE(SUM(quantity), 0) FROM order_items WHERE order_id = $1 AND product_id = $2",
		orderID, productID,
	).Scan(&count, &quantity)
	require.NoError(t, err)
	return count, quantity
}

func TestIntegration_AddThenGrowThenOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.product(t, "999.00", 10)
	orderID := f.order(t, models.OrderStatusDraft)

	item, err := f.svc.AddItem(ctx, orderID, productID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, "999.00", item.PricePerUnit.StringFixed(2))
	assert.Equal(t, "2997.00", item.LineTotal().StringFixed(2))
	assert.Equal(t, 7, f.stock(t, productID))

	_, err = f.database.Conn.Exec("UPDATE products SET price = 1200.00 WHERE id = $1", productID)
	require.NoError(t, err)

	item, err = f.svc.AddItem(ctx, orderID, productID, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)
	assert.Equal(t, "999.00", item.PricePerUnit.StringFixed(2))
	assert.Equal(t, 3, f.stock(t, productID))

	_, err = f.svc.AddItem(ctx, orderID, productID, 10)
	assert.ErrorIs(t, err, ErrNotEnoughStock)
	assert.Equal(t, 3, f.stock(t, productID))

	count, quantity := f.lines(t, orderID, productID)
	assert.Equal(t, 1, count)
	assert.Equal(t, 7, quantity)
}

func TestIntegration_NonDraftOrderHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.product(t, "10.00", 5)
	for _, status := range []models.OrderStatus{models.OrderStatusPlaced, models.OrderStatusCanceled} {
		orderID := f.order(t, status)

		_, err := f.svc.AddItem(ctx, orderID, productID, 1)
		assert.ErrorIs(t, err, ErrOrderNotEditable)

		count, _ := f.lines(t, orderID, productID)
		assert.Zero(t, count)
	}
	assert.Equal(t, 5, f.stock(t, productID))
}

func TestIntegration_UnknownIdentities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.product(t, "1.00", 1)
	orderID := f.order(t, models.OrderStatusDraft)

	_, err := f.svc.AddItem(ctx, orderID+1_000_000, productID, 1)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.svc.AddItem(ctx, orderID, productID+1_000_000, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.Equal(t, 1, f.stock(t, productID))
}

func TestIntegration_ConcurrentAddsExactlyOneFits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	productID := f.product(t, "3.00", 10)
	orderID := f.order(t, models.OrderStatusDraft)

	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.svc.AddItem(ctx, orderID, productID, 6)
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrNotEnoughStock):
			short++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, short)
	assert.Equal(t, 4, f.stock(t, productID))

	count, quantity := f.lines(t, orderID, productID)
	assert.Equal(t, 1, count)
	assert.Equal(t, 6, quantity)
}

func TestIntegration_ConcurrentAddsNeverOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const initial = 15
	productID := f.product(t, "0.10", initial)
	orders := []int64{f.order(t, models.OrderStatusDraft), f.order(t, models.OrderStatusDraft)}

	var mu sync.Mutex
	committed := map[int64]int{}
	var wg sync.WaitGroup
	for i := 0; i < 24; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			orderID := orders[i%len(orders)]
			qty := i%3 + 1
			if _, err := f.svc.AddItem(ctx, orderID, productID, qty); err == nil {
				mu.Lock()
				committed[orderID] += qty
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrNotEnoughStock)
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for _, orderID := range orders {
		count, quantity := f.lines(t, orderID, productID)
		if committed[orderID] > 0 {
			assert.Equal(t, 1, count)
		}
		assert.Equal(t, committed[orderID], quantity)
		total += quantity
	}
	assert.LessOrEqual(t, total, initial)
	assert.Equal(t, initial-total, f.stock(t, productID))
}
