package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
)

const ItemAddedQueue = "order.item_added"

// Broker is the part of messaging.RabbitMQ the publisher needs.
type Broker interface {
	DeclareQueue(name string) error
	Publish(ctx context.Context, queue, messageID string, message []byte) error
}

type ItemPublisher struct {
	mq Broker
}

func NewItemPublisher(mq Broker) (*ItemPublisher, error) {
	if err := mq.DeclareQueue(ItemAddedQueue); err != nil {
		return nil, err
	}

	return &ItemPublisher{mq: mq}, nil
}

// ItemAdded publishes an order.item_added event
func (p *ItemPublisher) ItemAdded(ctx context.Context, event models.ItemAddedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.mq.Publish(ctx, ItemAddedQueue, event.EventID, data)
}
