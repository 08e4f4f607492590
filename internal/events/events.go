// Package events publishes order lifecycle events on an in-process pub/sub
// so downstream consumers (mailers, analytics) can react without coupling
// to the checkout path.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"techmart/internal/domain"
)

const TopicOrderPlaced = "orders.placed"

type OrderPlaced struct {
	OrderID   string    `json:"order_id"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"item_count"`
	PlacedAt  time.Time `json:"placed_at"`
}

type Publisher struct {
	bus *gochannel.GoChannel
}

func NewPublisher() *Publisher {
	return &Publisher{
		bus: gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false)),
	}
}

// OrderPlaced is best-effort: checkout has already committed when it runs,
// so publish errors are swallowed rather than failing the order.
func (p *Publisher) OrderPlaced(o domain.Order) {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	payload, err := json.Marshal(OrderPlaced{
		OrderID:   o.ID,
		Total:     o.Total,
		ItemCount: n,
		PlacedAt:  o.Date,
	})
	if err != nil {
		return
	}
	_ = p.bus.Publish(TopicOrderPlaced, message.NewMessage(watermill.NewUUID(), payload))
}

// Subscribe returns the raw message stream for a topic.
func (p *Publisher) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return p.bus.Subscribe(ctx, topic)
}

func (p *Publisher) Close() error {
	return p.bus.Close()
}
