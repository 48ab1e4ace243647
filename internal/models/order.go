package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. Line items may only change
// while an order is OrderStatusDraft.
type OrderStatus string

const (
	OrderStatusDraft    OrderStatus = "draft"
	OrderStatusPlaced   OrderStatus = "placed"
	OrderStatusCanceled OrderStatus = "canceled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPlaced, OrderStatusCanceled:
		return true
	}
	return false
}

// Scan reads the order_status enum column.
func (s *OrderStatus) Scan(src interface{}) error {
	var v string
	switch t := src.(type) {
	case string:
		v = t
	case []byte:
		v = string(t)
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", src)
	}

	status := OrderStatus(v)
	if !status.Valid() {
		return fmt.Errorf("unknown order status %q", v)
	}
	*s = status
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

type Order struct {
	ID        int64       `json:"id"`
	ClientID  int64       `json:"client_id"`
	Status    OrderStatus `json:"status"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem is one line of an order. PricePerUnit is the product price
// captured when the line was first created.
type OrderItem struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"order_id"`
	ProductID    int64           `json:"product_id"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// LineTotal is quantity times the snapshot price, computed exactly.
func (i OrderItem) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(int64(i.Quantity)).Mul(i.PricePerUnit)
}

type CreateOrderRequest struct {
	ClientID int64 `json:"client_id" binding:"required,gt=0"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type OrderItemResponse struct {
	OrderID      int64  `json:"order_id"`
	ProductID    int64  `json:"product_id"`
	Quantity     int    `json:"quantity"`
	PricePerUnit string `json:"price_per_unit"`
	LineTotal    string `json:"line_total"`
}

func NewOrderItemResponse(item OrderItem) OrderItemResponse {
	return OrderItemResponse{
		OrderID:      item.OrderID,
		ProductID:    item.ProductID,
		Quantity:     item.Quantity,
		PricePerUnit: item.PricePerUnit.StringFixed(2),
		LineTotal:    item.LineTotal().StringFixed(2),
	}
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
