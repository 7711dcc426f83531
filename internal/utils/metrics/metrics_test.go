package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *Metrics {
	return NewWithRegisterer("test", prometheus.NewRegistry())
}

func TestRecordHTTPRequest(t *testing.T) {
	m := newTestMetrics()

	m.RecordHTTPRequest("POST", "/api/v1/payments/session", 200, 42*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/payments/session", 200, 10*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/payments/session", 502, time.Second)

	ok := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/payments/session", "200"))
	failed := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/payments/session", "502"))
	assert.Equal(t, float64(2), ok)
	assert.Equal(t, float64(1), failed)
}

func TestRecordCheckoutSession(t *testing.T) {
	m := newTestMetrics()

	m.RecordCheckoutSession("created")
	m.RecordCheckoutSession("created")
	m.RecordCheckoutSession("validation_failed")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CheckoutSessionsTotal.WithLabelValues("created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CheckoutSessionsTotal.WithLabelValues("validation_failed")))
}

func TestRecordWebhookEvent(t *testing.T) {
	m := newTestMetrics()

	m.RecordWebhookEvent("charge.succeeded", "dispatched")
	m.RecordWebhookEvent("invoice.paid", "ignored")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("charge.succeeded", "dispatched")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WebhookEventsTotal.WithLabelValues("invoice.paid", "ignored")))
}

func TestRecordEventPublished(t *testing.T) {
	m := newTestMetrics()

	m.RecordEventPublished("payment.succeeded", nil)
	m.RecordEventPublished("payment.succeeded", errors.New("broker down"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.EventsPublishedTotal.WithLabelValues("payment.succeeded", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EventsPublishedTotal.WithLabelValues("payment.succeeded", "error")))
}
