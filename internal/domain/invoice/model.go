package invoice

import (
	"time"

	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents a bill issued by a user to an optional customer.
// TotalAmount is authoritative and always equals the sum of its line item
// totals; it is never edited independently.
type Invoice struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	CustomerID    *string             `json:"customer_id,omitempty"`
	InvoiceNumber string              `json:"invoice_number"`
	IssueDate     time.Time           `json:"issue_date"`
	DueDate       time.Time           `json:"due_date"`
	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Notes         string              `json:"notes,omitempty"`
	ShareToken    *string             `json:"share_token,omitempty"`
	LineItems     []*LineItem         `json:"line_items,omitempty"`
	types.BaseModel
}

// ComputeTotal derives an invoice total from its line items.
// An invoice with no items totals zero.
func ComputeTotal(items []*LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// RecomputeTotal rewrites the stored total from the current line items
func (i *Invoice) RecomputeTotal() {
	i.TotalAmount = ComputeTotal(i.LineItems)
}

// IsOverdue is the single shared overdue derivation used by the dashboard
// summary and the period report: unpaid and past due.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.InvoiceStatus != types.InvoiceStatusPaid && i.DueDate.Before(now)
}

// GetRemainingAmount returns the amount still owed given the cumulative
// amount paid, clamped at zero for display (overpayment is accepted).
func (i *Invoice) GetRemainingAmount(totalPaid decimal.Decimal) decimal.Decimal {
	remaining := i.TotalAmount.Sub(totalPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

func (i *Invoice) Validate() error {
	if i.UserID == "" {
		return ierr.NewError("invoice validation failed").
			WithHint("user_id is required").
			Mark(ierr.ErrValidation)
	}

	if i.InvoiceNumber == "" {
		return ierr.NewError("invoice validation failed").
			WithHint("invoice_number is required").
			Mark(ierr.ErrValidation)
	}

	if i.DueDate.Before(i.IssueDate) {
		return ierr.NewError("invoice validation failed").
			WithHint("due_date must not be before issue_date").
			WithReportableDetails(map[string]any{
				"issue_date": i.IssueDate,
				"due_date":   i.DueDate,
			}).
			Mark(ierr.ErrValidation)
	}

	if i.TotalAmount.IsNegative() {
		return ierr.NewError("invoice validation failed").
			WithHint("total_amount must be non negative").
			Mark(ierr.ErrValidation)
	}

	if err := i.InvoiceStatus.Validate(); err != nil {
		return err
	}

	if !i.TotalAmount.Equal(ComputeTotal(i.LineItems)) {
		return ierr.NewError("invoice validation failed").
			WithHint("total_amount must equal the sum of line item totals").
			Mark(ierr.ErrValidation)
	}

	for _, item := range i.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}
