package payment

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/nest-ms-kv/payments-microservice/internal/infra/events"
	apperrors "github.com/nest-ms-kv/payments-microservice/internal/shared/errors"
	"github.com/nest-ms-kv/payments-microservice/internal/utils/metrics"
)

// EventDedup records processed webhook event IDs. MarkProcessed reports
// whether the event is seen for the first time.
type EventDedup interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
}

// Outcome describes what Dispatch did with a verified event.
type Outcome struct {
	EventType string
	Emitted   bool
	Duplicate bool
}

// Dispatcher maps verified processor events onto domain events. It never
// fails observably: Stripe sends many event types this service does not care
// about, and a malformed payload is the processor's bug, not ours to crash on.
type Dispatcher struct {
	publisher events.Publisher
	dedup     EventDedup // nil when no dedup store is configured
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewDispatcher creates a new event dispatcher. dedup may be nil.
func NewDispatcher(
	publisher events.Publisher,
	dedup EventDedup,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		dedup:     dedup,
		metrics:   m,
		logger:    logger,
	}
}

// Dispatch selects a handler by event type and emits the corresponding domain
// event. Unrecognized types are logged and ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, event *stripe.Event) Outcome {
	outcome := Outcome{EventType: string(event.Type)}

	switch event.Type {
	case "charge.succeeded":
		d.handleChargeSucceeded(ctx, event, &outcome)
	default:
		d.metrics.RecordWebhookEvent(string(event.Type), "ignored")
		d.logger.Debug("unhandled webhook event type", zap.String("type", string(event.Type)))
	}

	return outcome
}

func (d *Dispatcher) handleChargeSucceeded(ctx context.Context, event *stripe.Event, outcome *Outcome) {
	// Signature verification says nothing about the body's shape: a verified
	// event may still omit the data object entirely.
	if event.Data == nil {
		d.recordMalformed(event, apperrors.MalformedEvent("charge event without data payload"))
		return
	}

	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		d.recordMalformed(event, apperrors.MalformedEvent("undecodable charge payload"), zap.Error(err))
		return
	}

	orderID := charge.Metadata["orderId"]
	if orderID == "" {
		d.recordMalformed(event, apperrors.MalformedEvent("charge without order metadata"),
			zap.String("charge_id", charge.ID),
			zap.Error(ErrMissingOrderMeta),
		)
		return
	}

	if d.isDuplicate(ctx, event.ID) {
		outcome.Duplicate = true
		d.metrics.RecordWebhookEvent(string(event.Type), "duplicate")
		d.logger.Info("webhook event already processed", zap.String("event_id", event.ID))
		return
	}

	payload := PaymentSucceededEvent{
		StripePaymentID: charge.ID,
		OrderID:         orderID,
		ReceiptURL:      charge.ReceiptURL,
	}

	err := d.publisher.Publish(ctx, SubjectPaymentSucceeded, payload)
	d.metrics.RecordEventPublished(SubjectPaymentSucceeded, err)
	if err != nil {
		// At-least-once delivery is the transport's contract; nothing to do
		// here beyond recording the failure.
		d.logger.Error("failed to publish domain event",
			zap.String("subject", SubjectPaymentSucceeded),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	outcome.Emitted = true
	d.metrics.RecordWebhookEvent(string(event.Type), "dispatched")
	d.logger.Info("payment succeeded",
		zap.String("charge_id", charge.ID),
		zap.String("order_id", orderID),
	)
}

// recordMalformed logs and counts a verified event whose body does not match
// the expected shape. Malformed events are swallowed, never surfaced to Stripe.
func (d *Dispatcher) recordMalformed(event *stripe.Event, appErr *apperrors.AppError, fields ...zap.Field) {
	d.metrics.RecordWebhookEvent(string(event.Type), "malformed")
	fields = append(fields,
		zap.String("event_id", event.ID),
		zap.String("code", appErr.Code),
	)
	d.logger.Warn(appErr.Message, fields...)
}

// isDuplicate consults the dedup store when one is configured. A store error
// is logged and treated as first delivery: processing twice beats missing one.
func (d *Dispatcher) isDuplicate(ctx context.Context, eventID string) bool {
	if d.dedup == nil {
		return false
	}
	first, err := d.dedup.MarkProcessed(ctx, eventID)
	if err != nil {
		d.logger.Error("failed to check event dedup store",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		return false
	}
	return !first
}
