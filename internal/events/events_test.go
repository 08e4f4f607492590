package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"techmart/internal/domain"
	"techmart/internal/events"
)

func TestOrderPlacedRoundTrip(t *testing.T) {
	pub := events.NewPublisher()
	t.Cleanup(func() { _ = pub.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	msgs, err := pub.Subscribe(ctx, events.TopicOrderPlaced)
	if err != nil {
		t.Fatal(err)
	}

	placed := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	pub.OrderPlaced(domain.Order{
		ID:    "o1",
		Date:  placed,
		Total: 42.5,
		Items: []domain.OrderItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	})

	select {
	case msg := <-msgs:
		var ev events.OrderPlaced
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			t.Fatal(err)
		}
		msg.Ack()
		if ev.OrderID != "o1" || ev.Total != 42.5 || ev.ItemCount != 3 {
			t.Fatalf("bad event: %+v", ev)
		}
		if !ev.PlacedAt.Equal(placed) {
			t.Fatalf("placedAt drift: %v", ev.PlacedAt)
		}
	case <-ctx.Done():
		t.Fatal("no event received")
	}
}
