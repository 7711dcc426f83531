package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// ErrProviderUnavailable is returned when the circuit breaker is open and the
// processor is not being called.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

// StripeProvider implements CheckoutProvider for Stripe.
type StripeProvider struct {
	apiKey        string
	webhookSecret string
	breaker       *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
}

// StripeConfig holds Stripe configuration.
type StripeConfig struct {
	APIKey        string
	WebhookSecret string
	Timeout       time.Duration
}

// NewStripeProvider creates a new Stripe provider. The client key and HTTP
// timeout are process-wide; the provider is immutable after construction and
// safe for concurrent use.
func NewStripeProvider(config *StripeConfig) *StripeProvider {
	stripe.Key = config.APIKey
	if config.Timeout > 0 {
		stripe.SetHTTPClient(&http.Client{Timeout: config.Timeout})
	}

	breaker := gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
		Name:        "stripe-checkout",
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &StripeProvider{
		apiKey:        config.APIKey,
		webhookSecret: config.WebhookSecret,
		breaker:       breaker,
	}
}

// Name returns the provider name.
func (p *StripeProvider) Name() string {
	return "stripe"
}

// CreateCheckoutSession creates a Stripe Checkout Session in payment mode.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSession, error) {
	sessionParams := buildSessionParams(params)
	sessionParams.Context = ctx

	s, err := p.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return session.New(sessionParams)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	// Only the non-sensitive fields leave this adapter.
	return &CheckoutSession{
		URL:        s.URL,
		SuccessURL: s.SuccessURL,
		CancelURL:  s.CancelURL,
	}, nil
}

// ConstructWebhookEvent verifies the Stripe-Signature header against the raw
// payload and decodes the event. Stripe signs the exact body bytes, so the
// payload must not pass through any body-rewriting middleware first.
func (p *StripeProvider) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, p.webhookSecret)
}

// buildSessionParams maps provider-neutral params onto the Stripe request.
// The order ID rides on payment-intent metadata so the charge webhook can
// recover it.
func buildSessionParams(params *CheckoutSessionParams) *stripe.CheckoutSessionParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.Items))
	for _, item := range params.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(params.Currency),
				UnitAmount: stripe.Int64(item.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	return &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{
				"orderId": params.OrderID,
			},
		},
	}
}

var _ CheckoutProvider = (*StripeProvider)(nil)
