package db

import (
	"context"
	"fmt"
)

// schemaStatements create the shop tables. Every statement is idempotent.
var schemaStatements = []string{
	`DO $$ BEGIN
		CREATE TYPE order_status AS ENUM ('draft', 'placed', 'canceled');
	EXCEPTION
		WHEN duplicate_object THEN NULL;
	END $$`,

	`CREATE TABLE IF NOT EXISTS categories (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		parent_id  BIGINT REFERENCES categories(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		price       NUMERIC(12, 2) NOT NULL,
		stock       INTEGER NOT NULL DEFAULT 0,
		category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT ck_products_price_nonneg CHECK (price >= 0),
		CONSTRAINT ck_products_stock_nonneg CHECK (stock >= 0)
	)`,

	`CREATE TABLE IF NOT EXISTS clients (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL UNIQUE,
		address    VARCHAR(500),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id         BIGSERIAL PRIMARY KEY,
		client_id  BIGINT NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		status     order_status NOT NULL DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_orders_client_id ON orders (client_id)`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id             BIGSERIAL PRIMARY KEY,
		order_id       BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id     BIGINT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
		quantity       INTEGER NOT NULL,
		price_per_unit NUMERIC(12, 2) NOT NULL,
		CONSTRAINT ck_order_items_qty_positive CHECK (quantity > 0),
		CONSTRAINT uq_order_items_order_product UNIQUE (order_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_order_items_order_id ON order_items (order_id)`,
	`CREATE INDEX IF NOT EXISTS ix_order_items_product_id ON order_items (product_id)`,
}

// CreateTables creates the schema if it does not exist yet.
func CreateTables(ctx context.Context, q Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
