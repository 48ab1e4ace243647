package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/db"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
)

// OrderStatusReader resolves an order's status inside a transaction.
type OrderStatusReader interface {
	StatusForShare(ctx context.Context, tx db.Querier, orderID int64) (models.OrderStatus, error)
}

// OrderGuard is the single gate deciding whether an order's lines may change.
type OrderGuard struct {
	orders OrderStatusReader
}

func NewOrderGuard(orders OrderStatusReader) *OrderGuard {
	return &OrderGuard{orders: orders}
}

// AssertEditable fails with ErrOrderNotFound or ErrOrderNotEditable. It
// writes nothing.
func (g *OrderGuard) AssertEditable(ctx context.Context, tx db.Querier, orderID int64) error {
	status, err := g.orders.StatusForShare(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
		}
		return err
	}
	return CheckEditable(status)
}

// CheckEditable reports whether an order in status may have its lines
// changed.
func CheckEditable(status models.OrderStatus) error {
	if status != models.OrderStatusDraft {
		return fmt.Errorf("%w: status is %s", ErrOrderNotEditable, status)
	}
	return nil
}
