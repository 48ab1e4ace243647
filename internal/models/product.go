package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID *int64          `json:"category_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type CreateProductRequest struct {
	Name       string          `json:"name" binding:"required,max=255"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock" binding:"gte=0"`
	CategoryID *int64          `json:"category_id"`
}

type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
