package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBus(t *testing.T) {
	t.Run("delivers to subscribers in order", func(t *testing.T) {
		bus := NewBus(zap.NewNop())

		var got []string
		bus.Subscribe("payment.succeeded", func(ctx context.Context, payload any) error {
			got = append(got, "first")
			return nil
		})
		bus.Subscribe("payment.succeeded", func(ctx context.Context, payload any) error {
			got = append(got, "second")
			return nil
		})

		err := bus.Publish(context.Background(), "payment.succeeded", "payload")
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, got)
	})

	t.Run("handler errors are isolated", func(t *testing.T) {
		bus := NewBus(zap.NewNop())

		var called bool
		bus.Subscribe("payment.succeeded", func(ctx context.Context, payload any) error {
			return errors.New("handler failed")
		})
		bus.Subscribe("payment.succeeded", func(ctx context.Context, payload any) error {
			called = true
			return nil
		})

		err := bus.Publish(context.Background(), "payment.succeeded", "payload")
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("publish without subscribers is a no-op", func(t *testing.T) {
		bus := NewBus(zap.NewNop())
		assert.NoError(t, bus.Publish(context.Background(), "unknown.subject", nil))
	})
}

type fakeWriter struct {
	messages []skafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	t.Run("writes enveloped message keyed by subject", func(t *testing.T) {
		w := &fakeWriter{}
		p := NewKafkaPublisherWithWriter(w, zap.NewNop())

		err := p.Publish(context.Background(), "payment.succeeded", map[string]string{"orderId": "o1"})
		require.NoError(t, err)
		require.Len(t, w.messages, 1)
		assert.Equal(t, []byte("payment.succeeded"), w.messages[0].Key)

		var env Envelope
		require.NoError(t, json.Unmarshal(w.messages[0].Value, &env))
		assert.Equal(t, "payment.succeeded", env.Type)
		assert.NotEmpty(t, env.ID)
		assert.False(t, env.OccurredAt.IsZero())

		data, ok := env.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "o1", data["orderId"])
	})

	t.Run("propagates write failure", func(t *testing.T) {
		p := NewKafkaPublisherWithWriter(&fakeWriter{err: errors.New("broker unreachable")}, zap.NewNop())
		err := p.Publish(context.Background(), "payment.succeeded", nil)
		assert.Error(t, err)
	})
}
