package types

import (
	"time"

	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus represents the current state of an invoice in its lifecycle
type InvoiceStatus string

const (
	// InvoiceStatusDraft indicates the invoice has been created but not sent to the customer
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	// InvoiceStatusSent indicates the invoice has been issued to the customer and awaits payment
	InvoiceStatusSent InvoiceStatus = "SENT"
	// InvoiceStatusPaid indicates cumulative payments have covered the invoice total
	InvoiceStatusPaid InvoiceStatus = "PAID"
	// InvoiceStatusOverdue indicates the invoice passed its due date without full payment
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CanTransitionTo reports whether a user-driven edit from s to target is legal.
// PAID is only ever set by payment reconciliation and only ever cleared by it
// (when a payment deletion drops coverage), never by a direct edit.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	if s == target {
		return true
	}

	allowedTransitions := map[InvoiceStatus][]InvoiceStatus{
		InvoiceStatusDraft: {
			InvoiceStatusSent,
			InvoiceStatusOverdue,
		},
		InvoiceStatusSent: {
			InvoiceStatusOverdue,
		},
		InvoiceStatusOverdue: {
			InvoiceStatusSent,
		},
	}

	allowed, ok := allowedTransitions[s]
	if !ok {
		return false
	}
	return lo.Contains(allowed, target)
}

// InvoiceFilter represents the filter options for listing invoices
type InvoiceFilter struct {
	*QueryFilter
	*TimeRangeFilter

	// invoice_ids restricts results to invoices with the specified IDs
	InvoiceIDs []string `json:"invoice_ids,omitempty" form:"invoice_ids"`

	// user_id filters invoices owned by a specific user
	UserID string `json:"user_id,omitempty" form:"user_id"`

	// customer_id filters invoices for a specific customer
	CustomerID string `json:"customer_id,omitempty" form:"customer_id"`

	// invoice_status filters invoices by lifecycle status
	InvoiceStatus []InvoiceStatus `json:"invoice_status,omitempty" form:"invoice_status"`

	// issued_after and issued_before filter on the issue date, both inclusive
	IssuedAfter  *time.Time `json:"issued_after,omitempty" form:"issued_after"`
	IssuedBefore *time.Time `json:"issued_before,omitempty" form:"issued_before"`
}

// NewInvoiceFilter creates a new invoice filter with default pagination
func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitInvoiceFilter creates a new invoice filter without pagination
func NewNoLimitInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *InvoiceFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}

	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}

	for _, status := range f.InvoiceStatus {
		if err := status.Validate(); err != nil {
			return err
		}
	}

	if f.IssuedAfter != nil && f.IssuedBefore != nil && f.IssuedBefore.Before(*f.IssuedAfter) {
		return ierr.NewError("issued_before must be after issued_after").
			WithHint("Invalid issue date range").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// GetLimit implements BaseFilter interface
func (f *InvoiceFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *InvoiceFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// IsUnlimited implements BaseFilter interface
func (f *InvoiceFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
