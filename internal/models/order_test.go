package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderItem_LineTotalIsExact(t *testing.T) {
	item := OrderItem{Quantity: 3, PricePerUnit: decimal.RequireFromString("0.10")}
	assert.Equal(t, "0.30", item.LineTotal().StringFixed(2))

	item = OrderItem{Quantity: 7, PricePerUnit: decimal.RequireFromString("999.99")}
	assert.Equal(t, "6999.93", item.LineTotal().StringFixed(2))
}

func TestOrderStatus_Scan(t *testing.T) {
	var s OrderStatus

	require.NoError(t, s.Scan([]byte("placed")))
	assert.Equal(t, OrderStatusPlaced, s)

	require.NoError(t, s.Scan("draft"))
	assert.Equal(t, OrderStatusDraft, s)

	assert.Error(t, s.Scan("shipped"))
	assert.Error(t, s.Scan(42))
}

func TestNewOrderItemResponse(t *testing.T) {
	resp := NewOrderItemResponse(OrderItem{
		OrderID:      1,
		ProductID:    2,
		Quantity:     3,
		PricePerUnit: decimal.RequireFromString("999"),
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"order_id":1,"product_id":2,"quantity":3,"price_per_unit":"999.00","line_total":"2997.00"}`,
		string(data),
	)
}
