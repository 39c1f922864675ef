package invoice

import (
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/types"
	"github.com/shopspring/decimal"
)

// LineItem represents a single billable line in an invoice
type LineItem struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	types.BaseModel
}

// ComputeLineTotal derives a line total as quantity times unit price in
// exact decimal arithmetic
func ComputeLineTotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// RecomputeTotal rewrites the derived total price. TotalPrice is never
// edited independently.
func (i *LineItem) RecomputeTotal() {
	i.TotalPrice = ComputeLineTotal(i.Quantity, i.UnitPrice)
}

// Validate validates the invoice line item
func (i *LineItem) Validate() error {
	if i.Description == "" {
		return ierr.NewError("line item validation failed").
			WithHint("description is required").
			WithReportableDetails(map[string]any{
				"description": "must not be empty",
			}).
			Mark(ierr.ErrValidation)
	}

	if i.Quantity <= 0 {
		return ierr.NewError("line item validation failed").
			WithHint("quantity must be greater than zero").
			WithReportableDetails(map[string]any{
				"quantity": i.Quantity,
			}).
			Mark(ierr.ErrValidation)
	}

	if i.UnitPrice.IsNegative() {
		return ierr.NewError("line item validation failed").
			WithHint("unit_price must be non negative").
			WithReportableDetails(map[string]any{
				"unit_price": i.UnitPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if !i.TotalPrice.Equal(ComputeLineTotal(i.Quantity, i.UnitPrice)) {
		return ierr.NewError("line item validation failed").
			WithHint("total_price must equal quantity times unit_price").
			Mark(ierr.ErrValidation)
	}

	return nil
}
