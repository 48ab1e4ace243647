package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudhivi99/Distributed-Systems/shop-service/internal/models"
)

type fakeBroker struct {
	declared   []string
	declareErr error
	queue      string
	messageID  string
	body       []byte
}

func (b *fakeBroker) DeclareQueue(name string) error {
	b.declared = append(b.declared, name)
	return b.declareErr
}

func (b *fakeBroker) Publish(_ context.Context, queue, messageID string, message []byte) error {
	b.queue, b.messageID, b.body = queue, messageID, message
	return nil
}

func TestItemPublisher_DeclaresAndPublishes(t *testing.T) {
	broker := &fakeBroker{}
	pub, err := NewItemPublisher(broker)
	require.NoError(t, err)
	assert.Equal(t, []string{ItemAddedQueue}, broker.declared)

	event := models.ItemAddedEvent{
		EventID:        "evt-1",
		OrderID:        7,
		ProductID:      3,
		Delta:          2,
		Quantity:       5,
		PricePerUnit:   decimal.RequireFromString("999.00"),
		RemainingStock: 1,
	}
	require.NoError(t, pub.ItemAdded(context.Background(), event))

	assert.Equal(t, ItemAddedQueue, broker.queue)
	assert.Equal(t, "evt-1", broker.messageID)

	var decoded models.ItemAddedEvent
	require.NoError(t, json.Unmarshal(broker.body, &decoded))
	assert.Equal(t, int64(7), decoded.OrderID)
	assert.Equal(t, 5, decoded.Quantity)
	assert.True(t, decoded.PricePerUnit.Equal(event.PricePerUnit))
}

func TestNewItemPublisher_DeclareFailure(t *testing.T) {
	_, err := NewItemPublisher(&fakeBroker{declareErr: errors.New("channel closed")})
	assert.Error(t, err)
}
