package models

import "errors"

// Domain errors returned by the cart and order logic. Handlers map them
// to HTTP statuses at the request boundary.
var (
	ErrNotFound = errors.New("not found")
	ErrNoCart   = errors.New("user does not have a cart")

	// ErrEmptyCart is a validation failure, not a missing resource: the
	// cart exists, it just has nothing to order.
	ErrEmptyCart error = NewValidationError("cart", "cart is empty")
)

// ValidationError marks malformed or out-of-range input, e.g. a cart
// quantity below 1.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
