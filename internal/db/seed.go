package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
	"github.com/shopspring/decimal"
)

// Seed inserts a minimal demo data set when the catalog is empty and
// reports whether anything was written.
func Seed(ctx context.Context, database *PostgresDB) (bool, error) {
	seeded := false

	err := database.InTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT count(*) FROM products").Scan(&count); err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		if count > 0 {
			return nil
		}

		var rootID, phonesID int64
		insertCategory := "INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id"
		if err := tx.QueryRowContext(ctx, insertCategory, "Electronics", nil).Scan(&rootID); err != nil {
			return fmt.Errorf("failed to insert category: %w", err)
		}
		if err := tx.QueryRowContext(ctx, insertCategory, "Phones", rootID).Scan(&phonesID); err != nil {
			return fmt.Errorf("failed to insert category: %w", err)
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO products (name, price, stock, category_id) VALUES ($1, $2, $3, $4)",
			"Phone X", decimal.RequireFromString("999.00"), 10, phonesID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}

		var clientID int64
		insertClient := `
			INSERT INTO clients (name, address) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET address = EXCLUDED.address
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, insertClient, "ООО Ромашка", "Москва, ул. Пушкина, 1").Scan(&clientID); err != nil {
			return fmt.Errorf("failed to insert client: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO orders (client_id, status) VALUES ($1, $2)",
			clientID, models.OrderStatusDraft,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}
