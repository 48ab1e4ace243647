package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
)

var itemCols = []string{"id", "order_id", "product_id", "quantity", "price_per_unit"}

func TestOrderRepository_StatusForShare(t *testing.T) {
	database, mock := newMock(t)
	repo := NewOrderRepository(database)

	mock.ExpectQuery(`SELECT status FROM orders WHERE id = \$1 FOR SHARE`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("placed"))
	mock.ExpectQuery(`FOR SHARE`).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	status, err := repo.StatusForShare(context.Background(), database.Conn, 1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPlaced, status)

	_, err = repo.StatusForShare(context.Background(), database.Conn, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderRepository_StatusRejectsUnknownValue(t *testing.T) {
	database, mock := newMock(t)
	repo := NewOrderRepository(database)

	mock.ExpectQuery(`FOR SHARE`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("shipped"))

	_, err := repo.StatusForShare(context.Background(), database.Conn, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOrderRepository_LockItem(t *testing.T) {
	database, mock := newMock(t)
	repo := NewOrderRepository(database)

	mock.ExpectQuery(`FROM order_items WHERE order_id = \$1 AND product_id = \$2 FOR UPDATE`).WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(10, 1, 2, 4, "12.34"))

	item, err := repo.LockItem(context.Background(), database.Conn, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(10), item.ID)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, "12.34", item.PricePerUnit.String())
}

func TestOrderRepository_InsertAndIncrease(t *testing.T) {
	database, mock := newMock(t)
	repo := NewOrderRepository(database)

	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(1, 2, 3, decimal.RequireFromString("9.99")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(77))
	mock.ExpectQuery(`UPDATE order_items SET quantity = quantity \+ \$1 WHERE id = \$2 RETURNING quantity`).
		WithArgs(2, 77).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(5))

	item := &models.OrderItem{OrderID: 1, ProductID: 2, Quantity: 3, PricePerUnit: decimal.RequireFromString("9.99")}
	require.NoError(t, repo.InsertItem(context.Background(), database.Conn, item))
	assert.Equal(t, int64(77), item.ID)

	quantity, err := repo.IncreaseItemQuantity(context.Background(), database.Conn, 77, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByIDWithItems(t *testing.T) {
	database, mock := newMock(t)
	repo := NewOrderRepository(database)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, client_id, status, created_at FROM orders WHERE id = \$1`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "status", "created_at"}).AddRow(1, 4, "draft", created))
	mock.ExpectQuery(`FROM order_items WHERE order_id = \$1 ORDER BY id`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(10, 1, 2, 4, "12.34").
			AddRow(11, 1, 3, 1, "0.50"))

	order, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDraft, order.Status)
	assert.Equal(t, created, order.CreatedAt)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "49.36", order.Items[0].LineTotal().StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByIDNotFound(t *testing.T) {
	database, mock := newMock(t)
	repo := NewOrderRepository(database)

	mock.ExpectQuery(`FROM orders WHERE id = \$1`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "status", "created_at"}))

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
