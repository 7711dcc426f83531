package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// HandlerFunc processes a published event payload.
type HandlerFunc func(ctx context.Context, payload any) error

// Bus is a synchronous in-process Publisher. It serves deployments without a
// message broker: downstream consumers register handlers per subject and run
// inside the publishing process.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
	logger   *zap.Logger
}

// NewBus creates a new event bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]HandlerFunc),
		logger:   logger,
	}
}

// Subscribe registers a handler for a subject.
func (b *Bus) Subscribe(subject string, handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[subject] = append(b.handlers[subject], handler)
	b.logger.Debug("registered event handler", zap.String("subject", subject))
}

// Publish dispatches an event to all handlers registered for the subject.
// Handlers are called synchronously in registration order. A failing handler is
// logged and does not stop the others.
func (b *Bus) Publish(ctx context.Context, subject string, payload any) error {
	b.mu.RLock()
	handlers := b.handlers[subject]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no handlers registered for subject", zap.String("subject", subject))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(ctx, payload); err != nil {
			b.logger.Error("event handler failed",
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Close implements Publisher. The in-process bus holds no resources.
func (b *Bus) Close() error {
	return nil
}

var _ Publisher = (*Bus)(nil)
var _ Publisher = (*KafkaPublisher)(nil)
