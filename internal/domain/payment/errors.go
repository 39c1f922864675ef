package payment

import (
	"errors"
)

// ErrPaymentNotFound is returned when a payment is not found
var ErrPaymentNotFound = errors.New("payment not found")

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrPaymentNotFound)
}
