package payment

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nest-ms-kv/payments-microservice/internal/module/payment/provider"
	apperrors "github.com/nest-ms-kv/payments-microservice/internal/shared/errors"
	"github.com/nest-ms-kv/payments-microservice/internal/utils/metrics"
)

// WebhookHandler handles Stripe webhook deliveries. Signature verification
// runs on the raw request body, so this route must not sit behind any
// body-parsing middleware.
type WebhookHandler struct {
	provider   provider.CheckoutProvider
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(
	checkoutProvider provider.CheckoutProvider,
	dispatcher *Dispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		provider:   checkoutProvider,
		dispatcher: dispatcher,
		metrics:    m,
		logger:     logger,
	}
}

// RegisterRoutes registers the webhook routes.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/webhook", h.HandleStripeWebhook)
}

// HandleStripeWebhook handles incoming Stripe webhook events.
//
// A non-2xx status tells Stripe to redeliver, so it is returned only when the
// body is unreadable or fails verification. Once the event is authenticated
// the response is 200 regardless of dispatch outcome, per Stripe's
// acknowledge-fast contract.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		appErr := apperrors.NewAppError("BAD_REQUEST", "failed to read request body", http.StatusBadRequest, err)
		h.logger.Error("failed to read webhook body", zap.Error(err))
		c.JSON(appErr.StatusCode, apperrors.ToResponse(appErr))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	event, err := h.provider.ConstructWebhookEvent(payload, signature)
	if err != nil {
		appErr := apperrors.InvalidSignature(err)
		h.metrics.RecordWebhookEvent("unknown", "rejected")
		h.logger.Warn("invalid webhook signature", zap.Error(err))
		c.JSON(appErr.StatusCode, apperrors.ToResponse(appErr))
		return
	}

	outcome := h.dispatcher.Dispatch(c.Request.Context(), &event)

	status := "ignored"
	switch {
	case outcome.Emitted:
		status = "processed"
	case outcome.Duplicate:
		status = "already_processed"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
