package payment

import (
	"time"

	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/types"
	"github.com/shopspring/decimal"
)

// Payment represents a recorded receipt against an invoice
type Payment struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference,omitempty"`
	types.BaseModel
}

// Validate validates the payment
func (p *Payment) Validate() error {
	if p.InvoiceID == "" {
		return ierr.NewError("payment validation failed").
			WithHint("invoice_id is required").
			Mark(ierr.ErrValidation)
	}

	if !p.Amount.IsPositive() {
		return ierr.NewError("payment validation failed").
			WithHint("amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": p.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if p.PaymentMethod == "" {
		return ierr.NewError("payment validation failed").
			WithHint("payment_method is required").
			WithReportableDetails(map[string]any{
				"payment_method": "must not be empty",
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// TotalPaid sums payment amounts in exact decimal arithmetic
func TotalPaid(payments []*Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
