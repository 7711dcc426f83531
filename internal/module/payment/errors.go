package payment

import "errors"

// Module errors.
var (
	ErrEmptyItems       = errors.New("payment session requires at least one item")
	ErrInvalidQuantity  = errors.New("line item quantity must be at least 1")
	ErrNegativePrice    = errors.New("line item price must not be negative")
	ErrMissingCurrency  = errors.New("payment session requires a currency")
	ErrMissingOrderID   = errors.New("payment session requires an order id")
	ErrMissingOrderMeta = errors.New("charge metadata has no orderId")
)
