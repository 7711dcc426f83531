package provider

import (
	"context"

	"github.com/stripe/stripe-go/v76"
)

// CheckoutItem is a single line item in processor representation.
// UnitAmount is in the smallest currency unit (e.g. cents).
type CheckoutItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// CheckoutSessionParams holds everything needed to create a hosted checkout
// session. SuccessURL and CancelURL come from configuration, never from the
// caller.
type CheckoutSessionParams struct {
	Currency   string
	Items      []CheckoutItem
	OrderID    string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the normalized, non-sensitive view of a created session.
type CheckoutSession struct {
	URL        string
	SuccessURL string
	CancelURL  string
}

// CheckoutProvider defines the interface for hosted-checkout payment providers.
type CheckoutProvider interface {
	// Name returns the provider name.
	Name() string

	// CreateCheckoutSession creates a hosted checkout session with the
	// processor and returns its normalized view.
	CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSession, error)

	// ConstructWebhookEvent verifies the signature over the raw payload bytes
	// and decodes the body into a typed event. It must fail closed on any
	// mismatch or missing header.
	ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error)
}
