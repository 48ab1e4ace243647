package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
)

const itemColumns = "id, order_id, product_id, quantity, price_per_unit"

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(database *PostgresDB) *OrderRepository {
	return &OrderRepository{db: database.Conn}
}

// StatusForShare returns the order status under a shared row lock, so the
// status cannot change before the transaction ends while other readers of
// the same order are not blocked.
func (r *OrderRepository) StatusForShare(ctx context.Context, tx Querier, orderID int64) (models.OrderStatus, error) {
	query := "SELECT status FROM orders WHERE id = $1 FOR SHARE"

	var status models.OrderStatus
	if err := tx.QueryRowContext(ctx, query, orderID).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read order status: %w", err)
	}
	return status, nil
}

// LockItem returns the line for (orderID, productID) holding an exclusive
// row lock on it, or ErrNotFound when the order has no such line yet.
func (r *OrderRepository) LockItem(ctx context.Context, tx Querier, orderID, productID int64) (*models.OrderItem, error) {
	query := "SELECT " + itemColumns + " FROM order_items WHERE order_id = $1 AND product_id = $2 FOR UPDATE"

	var item models.OrderItem
	err := tx.QueryRowContext(ctx, query, orderID, productID).
		Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PricePerUnit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock order item: %w", err)
	}
	return &item, nil
}

// InsertItem creates a new line and fills in its id.
func (r *OrderRepository) InsertItem(ctx context.Context, tx Querier, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price_per_unit)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := tx.QueryRowContext(ctx, query, item.OrderID, item.ProductID, item.Quantity, item.PricePerUnit).
		Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	return nil
}

// IncreaseItemQuantity adds delta to an existing line. price_per_unit is
// never written here.
func (r *OrderRepository) IncreaseItemQuantity(ctx context.Context, tx Querier, itemID int64, delta int) (int, error) {
	query := "UPDATE order_items SET quantity = quantity + $1 WHERE id = $2 RETURNING quantity"

	var quantity int
	if err := tx.QueryRowContext(ctx, query, delta, itemID).Scan(&quantity); err != nil {
		return 0, fmt.Errorf("failed to update order item: %w", err)
	}
	return quantity, nil
}

// Create inserts a new draft order
func (r *OrderRepository) Create(ctx context.Context, clientID int64) (*models.Order, error) {
	query := `
		INSERT INTO orders (client_id, status)
		VALUES ($1, $2)
		RETURNING id, client_id, status, created_at
	`

	var o models.Order
	err := r.db.QueryRowContext(ctx, query, clientID, models.OrderStatusDraft).
		Scan(&o.ID, &o.ClientID, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	o.Items = []models.OrderItem{}
	return &o, nil
}

// GetByID returns a single order with items, without taking locks
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	orderQuery := "SELECT id, client_id, status, created_at FROM orders WHERE id = $1"

	var order models.Order
	err := r.db.QueryRowContext(ctx, orderQuery, id).
		Scan(&order.ID, &order.ClientID, &order.Status, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	itemsQuery := "SELECT " + itemColumns + " FROM order_items WHERE order_id = $1 ORDER BY id"

	rows, err := r.db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PricePerUnit)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	return &order, rows.Err()
}
