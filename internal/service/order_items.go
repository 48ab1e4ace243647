package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/db"
	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/prudhivi99/Distributed-Systems/shop-service/internal/service"

// TxRunner executes fn inside one atomic transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Ledger is the authoritative stock count per product.
type Ledger interface {
	LockByID(ctx context.Context, tx db.Querier, id int64) (*models.Product, error)
	Decrement(ctx context.Context, tx db.Querier, p *models.Product, amount int) error
}

// OrderLines reads and writes order_items rows inside a transaction.
type OrderLines interface {
	OrderStatusReader
	LockItem(ctx context.Context, tx db.Querier, orderID, productID int64) (*models.OrderItem, error)
	InsertItem(ctx context.Context, tx db.Querier, item *models.OrderItem) error
	IncreaseItemQuantity(ctx context.Context, tx db.Querier, itemID int64, delta int) (int, error)
}

// ItemNotifier is told about every committed add. Its errors are logged and
// never fail the call.
type ItemNotifier interface {
	ItemAdded(ctx context.Context, event models.ItemAddedEvent) error
}

type OrderItemService struct {
	tx       TxRunner
	ledger   Ledger
	lines    OrderLines
	guard    *OrderGuard
	notifier ItemNotifier
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewOrderItemService wires the upsert engine. notifier may be nil.
func NewOrderItemService(tx TxRunner, ledger Ledger, lines OrderLines, notifier ItemNotifier, logger *zap.Logger) *OrderItemService {
	return &OrderItemService{
		tx:       tx,
		ledger:   ledger,
		lines:    lines,
		guard:    NewOrderGuard(lines),
		notifier: notifier,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// AddItem adds quantity units of a product to a draft order, creating the
// line or growing the existing one. The full quantity is debited from stock
// on every call, so repeated calls accumulate.
//
// Locks are taken in a fixed order: order (shared), product, order line.
// Stock is checked against the locked row, which serializes concurrent adds
// of the same product across processes. On any failure the transaction is
// rolled back and nothing is written.
func (s *OrderItemService) AddItem(ctx context.Context, orderID, productID int64, quantity int) (*models.OrderItem, error) {
	ctx, span := s.tracer.Start(ctx, "order_items.add", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int64("product.id", productID),
		attribute.Int("order_item.delta", quantity),
	))
	defer span.End()

	if quantity <= 0 {
		return nil, s.fail(span, orderID, productID, quantity, ErrInvalidQuantity)
	}

	var line models.OrderItem
	var remaining int

	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.guard.AssertEditable(ctx, tx, orderID); err != nil {
			return err
		}

		product, err := s.ledger.LockByID(ctx, tx, productID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("%w: product %d", ErrProductNotFound, productID)
			}
			return err
		}

		existing, err := s.lines.LockItem(ctx, tx, orderID, productID)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return err
		}

		delta := quantity
		if product.Stock < delta {
			return fmt.Errorf("%w: product %d has %d, requested %d", ErrNotEnoughStock, productID, product.Stock, delta)
		}

		if err := s.ledger.Decrement(ctx, tx, product, delta); err != nil {
			return err
		}
		remaining = product.Stock

		if existing != nil {
			total, err := s.lines.IncreaseItemQuantity(ctx, tx, existing.ID, delta)
			if err != nil {
				return err
			}
			existing.Quantity = total
			line = *existing
			return nil
		}

		line = models.OrderItem{
			OrderID:      orderID,
			ProductID:    productID,
			Quantity:     delta,
			PricePerUnit: product.Price,
		}
		return s.lines.InsertItem(ctx, tx, &line)
	})
	if err != nil {
		return nil, s.fail(span, orderID, productID, quantity, err)
	}

	span.SetAttributes(
		attribute.Int("order_item.quantity", line.Quantity),
		attribute.Int("product.remaining_stock", remaining),
	)
	span.SetStatus(codes.Ok, "")

	s.logger.Info("Order item added",
		zap.Int64("order_id", orderID),
		zap.Int64("product_id", productID),
		zap.Int("delta", quantity),
		zap.Int("quantity", line.Quantity),
		zap.Int("remaining_stock", remaining),
	)

	s.notify(ctx, line, quantity, remaining)
	return &line, nil
}

func (s *OrderItemService) fail(span trace.Span, orderID, productID int64, quantity int, err error) error {
	kind := Kind(err)
	if kind == "" {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("Failed to add order item",
			zap.Int64("order_id", orderID),
			zap.Int64("product_id", productID),
			zap.Int("delta", quantity),
			zap.Error(err),
		)
		return err
	}

	span.SetAttributes(attribute.String("order_item.rejected", kind))
	span.SetStatus(codes.Error, kind)
	s.logger.Info("Order item rejected",
		zap.Int64("order_id", orderID),
		zap.Int64("product_id", productID),
		zap.Int("delta", quantity),
		zap.String("reason", kind),
	)
	return err
}

func (s *OrderItemService) notify(ctx context.Context, line models.OrderItem, delta, remaining int) {
	if s.notifier == nil {
		return
	}

	event := models.ItemAddedEvent{
		EventID:        uuid.NewString(),
		OrderID:        line.OrderID,
		ProductID:      line.ProductID,
		Delta:          delta,
		Quantity:       line.Quantity,
		PricePerUnit:   line.PricePerUnit,
		RemainingStock: remaining,
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.notifier.ItemAdded(ctx, event); err != nil {
		s.logger.Warn("Failed to publish item added event",
			zap.Int64("order_id", line.OrderID),
			zap.Error(err),
		)
	}
}
