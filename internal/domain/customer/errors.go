package customer

import (
	"errors"
)

// ErrCustomerNotFound is returned when a customer is not found
var ErrCustomerNotFound = errors.New("customer not found")

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrCustomerNotFound)
}
