package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	webhookEventKeyPrefix = "webhook:event:"
	webhookEventTTL       = 72 * time.Hour // outlives Stripe's redelivery window
)

// WebhookEventStore records processed webhook event IDs so redelivered events
// are not dispatched twice.
type WebhookEventStore struct {
	client *redis.Client
}

// NewWebhookEventStore creates a new webhook event store adapter.
func NewWebhookEventStore(client *redis.Client) *WebhookEventStore {
	return &WebhookEventStore{client: client}
}

// MarkProcessed records the event ID and reports whether this is the first
// time it has been seen.
func (s *WebhookEventStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	key := webhookEventKeyPrefix + eventID
	return s.client.SetNX(ctx, key, 1, webhookEventTTL).Result()
}
