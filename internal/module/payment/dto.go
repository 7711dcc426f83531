package payment

// LineItem is a single order line as supplied by the caller. Price is in
// major currency units (e.g. 19.99 USD).
type LineItem struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"min=0"`
	Quantity int64   `json:"quantity" binding:"required,min=1"`
}

// PaymentSessionRequest describes the order a checkout session is created for.
type PaymentSessionRequest struct {
	Currency string     `json:"currency" binding:"required"`
	Items    []LineItem `json:"items" binding:"required,min=1,dive"`
	OrderID  string     `json:"orderId" binding:"required"`
}

// PaymentSessionResult is returned to the caller after a session was accepted
// by the processor. It carries only the non-sensitive fields of the processor
// response.
type PaymentSessionResult struct {
	URL        string `json:"url"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

// PaymentSucceededEvent is the domain event emitted when the processor
// confirms a charge. Decoupled from the processor's event schema.
type PaymentSucceededEvent struct {
	StripePaymentID string `json:"stripePaymentId"`
	OrderID         string `json:"orderId"`
	ReceiptURL      string `json:"receiptUrl"`
}

// SubjectPaymentSucceeded is the bus subject for PaymentSucceededEvent.
const SubjectPaymentSucceeded = "payment.succeeded"
