package invoice

import (
	"context"

	"github.com/openbill/openbill/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// Create creates a new invoice together with its line items
	Create(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice with its line items by ID
	Get(ctx context.Context, id string) (*Invoice, error)

	// GetForUpdate retrieves an invoice and locks its row for the duration
	// of the surrounding transaction, serializing concurrent reconciliations
	GetForUpdate(ctx context.Context, id string) (*Invoice, error)

	// Update updates an existing invoice and rewrites its line items
	Update(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice and its line items
	Delete(ctx context.Context, id string) error

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the total count of invoices based on filter criteria
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// GetByInvoiceNumber retrieves an invoice by its user scoped number
	GetByInvoiceNumber(ctx context.Context, userID, invoiceNumber string) (*Invoice, error)

	// GetByShareToken retrieves an invoice by its public share token
	GetByShareToken(ctx context.Context, token string) (*Invoice, error)
}
