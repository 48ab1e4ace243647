package consumer

import (
	"context"
	"encoding/json"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Invalidator drops cached product data.
type Invalidator interface {
	Invalidate(ctx context.Context, productID int64)
}

// Acknowledger is the ack side of an amqp.Delivery.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// CacheConsumer keeps the product cache in step with committed adds.
type CacheConsumer struct {
	cache  Invalidator
	logger *zap.Logger
}

func NewCacheConsumer(cache Invalidator, logger *zap.Logger) *CacheConsumer {
	return &CacheConsumer{cache: cache, logger: logger}
}

// Run handles order.item_added deliveries until the channel closes or ctx
// is done.
func (c *CacheConsumer) Run(ctx context.Context, messages <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				c.logger.Warn("Delivery channel closed")
				return
			}
			c.Handle(ctx, msg.Body, msg)
		}
	}
}

// Handle processes a single event body.
func (c *CacheConsumer) Handle(ctx context.Context, body []byte, ack Acknowledger) {
	var event models.ItemAddedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Error("Failed to parse event", zap.Error(err))
		ack.Nack(false, false) // malformed, don't requeue
		return
	}

	c.cache.Invalidate(ctx, event.ProductID)
	c.logger.Debug("Product cache invalidated",
		zap.String("event_id", event.EventID),
		zap.Int64("product_id", event.ProductID),
		zap.Int("remaining_stock", event.RemainingStock),
	)

	ack.Ack(false)
}
