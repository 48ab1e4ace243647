package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
	"github.com/shopspring/decimal"
)

const productColumns = "id, name, price, stock, category_id, created_at"

// ProductRepository owns the products table. LockByID and Decrement form the
// inventory ledger and must run inside a transaction; the remaining methods
// are plain snapshot reads and catalog writes.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(database *PostgresDB) *ProductRepository {
	return &ProductRepository{db: database.Conn}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var categoryID sql.NullInt64
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &categoryID, &p.CreatedAt); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	return &p, nil
}

// LockByID reads a product and holds an exclusive row lock on it until the
// enclosing transaction ends.
func (r *ProductRepository) LockByID(ctx context.Context, tx Querier, id int64) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1 FOR UPDATE"

	p, err := scanProduct(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}
	return p, nil
}

// Decrement takes amount units from a product previously returned by
// LockByID. The caller checks availability first; amount outside
// 1..p.Stock is rejected without touching the row.
func (r *ProductRepository) Decrement(ctx context.Context, tx Querier, p *models.Product, amount int) error {
	if amount <= 0 || amount > p.Stock {
		return fmt.Errorf("invalid decrement of %d for product %d with stock %d", amount, p.ID, p.Stock)
	}

	query := "UPDATE products SET stock = stock - $1 WHERE id = $2 RETURNING stock"

	var stock int
	if err := tx.QueryRowContext(ctx, query, amount, p.ID).Scan(&stock); err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	p.Stock = stock
	return nil
}

// GetAll returns all products
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

// GetByID returns a single product
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	query := `
		INSERT INTO products (name, price, stock, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, req.Name, req.Price, req.Stock, req.CategoryID))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

// UpdatePrice changes the current price. Existing order lines keep the price
// they captured.
func (r *ProductRepository) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*models.Product, error) {
	query := "UPDATE products SET price = $1 WHERE id = $2 RETURNING " + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, price, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update price: %w", err)
	}
	return p, nil
}
