package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Publisher is the outbound transport for domain events. Delivery guarantees
// (at-least-once, retries) are owned by the implementation.
type Publisher interface {
	// Publish hands a domain event to the transport under the given subject.
	Publish(ctx context.Context, subject string, payload any) error

	// Close releases transport resources.
	Close() error
}

// Envelope wraps a domain event payload with transport metadata.
type Envelope struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// NewEnvelope creates an Envelope for the given subject and payload.
func NewEnvelope(subject string, payload any) Envelope {
	return Envelope{
		ID:         uuid.New(),
		Type:       subject,
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	}
}
