package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/contasapp/contas/internal/domain"
)

// Publisher publishes outbox events to a Redis channel.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a new Publisher.
func NewPublisher(client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = "events"
	}
	return &Publisher{
		client:  client,
		channel: channel,
	}
}

// Publish serializes the event and pushes it onto the channel.
func (p *Publisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	message, err := json.Marshal(map[string]any{
		"id":             event.ID,
		"aggregate_id":   event.AggregateID,
		"aggregate_type": event.AggregateType,
		"event_type":     event.EventType,
		"payload":        event.Payload,
		"created_at":     event.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, p.channel, message).Err()
}
