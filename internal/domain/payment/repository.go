package payment

import (
	"context"

	"github.com/openbill/openbill/internal/types"
)

// Repository defines the interface for payment persistence
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.PaymentFilter) ([]*Payment, error)
	Count(ctx context.Context, filter *types.PaymentFilter) (int, error)

	// ListByInvoiceID retrieves all payments recorded against an invoice
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]*Payment, error)
}
