package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemAddedEvent is published after an add-item transaction commits
type ItemAddedEvent struct {
	EventID        string          `json:"event_id"`
	OrderID        int64           `json:"order_id"`
	ProductID      int64           `json:"product_id"`
	Delta          int             `json:"delta"`
	Quantity       int             `json:"quantity"`
	PricePerUnit   decimal.Decimal `json:"price_per_unit"`
	RemainingStock int             `json:"remaining_stock"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
