package payment

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/nest-ms-kv/payments-microservice/internal/module/payment/provider"
	apperrors "github.com/nest-ms-kv/payments-microservice/internal/shared/errors"
	"github.com/nest-ms-kv/payments-microservice/internal/utils/metrics"
)

// RedirectURLs holds the configured post-checkout redirect targets. They are
// never taken from caller input, which would open a redirect injection hole.
type RedirectURLs struct {
	SuccessURL string
	CancelURL  string
}

// Service implements checkout session creation.
type Service struct {
	provider  provider.CheckoutProvider
	redirects RedirectURLs
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewService creates a new payment service.
func NewService(
	checkoutProvider provider.CheckoutProvider,
	redirects RedirectURLs,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		provider:  checkoutProvider,
		redirects: redirects,
		metrics:   m,
		logger:    logger,
	}
}

// CreatePaymentSession validates the request, builds a processor checkout
// session and returns its normalized result.
//
// The upstream call is detached from the inbound request's cancellation: an
// accepted session must not be silently lost because the client hung up. The
// provider's own HTTP timeout bounds the call instead.
func (s *Service) CreatePaymentSession(ctx context.Context, req *PaymentSessionRequest) (*PaymentSessionResult, error) {
	if err := validateRequest(req); err != nil {
		s.metrics.RecordCheckoutSession("validation_failed")
		return nil, apperrors.Validation(err.Error())
	}

	items := make([]provider.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, provider.CheckoutItem{
			Name:       item.Name,
			UnitAmount: toMinorUnits(item.Price),
			Quantity:   item.Quantity,
		})
	}

	params := &provider.CheckoutSessionParams{
		Currency:   req.Currency,
		Items:      items,
		OrderID:    req.OrderID,
		SuccessURL: s.redirects.SuccessURL,
		CancelURL:  s.redirects.CancelURL,
	}

	checkoutSession, err := s.provider.CreateCheckoutSession(context.WithoutCancel(ctx), params)
	if err != nil {
		s.metrics.RecordCheckoutSession("upstream_failed")
		s.logger.Error("checkout session creation failed",
			zap.String("order_id", req.OrderID),
			zap.String("provider", s.provider.Name()),
			zap.Error(err),
		)
		return nil, apperrors.Upstream("payment processor rejected the session", err)
	}

	s.metrics.RecordCheckoutSession("created")
	s.logger.Info("checkout session created",
		zap.String("order_id", req.OrderID),
		zap.String("currency", req.Currency),
		zap.Int("items", len(req.Items)),
	)

	return &PaymentSessionResult{
		URL:        checkoutSession.URL,
		SuccessURL: checkoutSession.SuccessURL,
		CancelURL:  checkoutSession.CancelURL,
	}, nil
}

func validateRequest(req *PaymentSessionRequest) error {
	if req.Currency == "" {
		return ErrMissingCurrency
	}
	if req.OrderID == "" {
		return ErrMissingOrderID
	}
	if len(req.Items) == 0 {
		return ErrEmptyItems
	}
	for i, item := range req.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("item %d (%s): %w", i, item.Name, ErrInvalidQuantity)
		}
		if item.Price < 0 {
			return fmt.Errorf("item %d (%s): %w", i, item.Name, ErrNegativePrice)
		}
	}
	return nil
}

// toMinorUnits converts a major-unit price to the processor's integer
// minor-unit amount, rounding to nearest rather than truncating.
func toMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
