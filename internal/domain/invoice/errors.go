package invoice

import (
	"errors"
)

var (
	// ErrInvoiceNotFound is returned when an invoice is not found
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrLineItemNotFound is returned when a line item is not found on an invoice
	ErrLineItemNotFound = errors.New("invoice line item not found")

	// ErrDuplicateInvoiceNumber is returned when an invoice number already
	// exists for the same user
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")

	// ErrDuplicateShareToken is returned when a generated share token collides
	// with an existing one
	ErrDuplicateShareToken = errors.New("share token already exists")
)

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrInvoiceNotFound) || errors.Is(err, ErrLineItemNotFound)
}
