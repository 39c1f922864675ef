package dto

import (
	"context"
	"time"

	"github.com/openbill/openbill/internal/domain/invoice"
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/types"
	"github.com/openbill/openbill/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents the request payload for creating a new invoice
type CreateInvoiceRequest struct {
	// customer_id is the optional billing party this invoice is addressed to
	CustomerID *string `json:"customer_id,omitempty"`

	// invoice_number is an optional human-readable identifier, unique per
	// user; generated when absent
	InvoiceNumber *string `json:"invoice_number,omitempty"`

	// issue_date is the date the invoice is issued
	IssueDate time.Time `json:"issue_date" validate:"required"`

	// due_date is the date by which payment is expected
	DueDate time.Time `json:"due_date" validate:"required"`

	// invoice_status optionally overrides the initial DRAFT status
	InvoiceStatus *types.InvoiceStatus `json:"invoice_status,omitempty"`

	// notes is free text shown on the invoice
	Notes string `json:"notes,omitempty"`

	// line_items contains the individual items that make up this invoice
	LineItems []CreateLineItemRequest `json:"line_items,omitempty"`
}

// CreateLineItemRequest represents one billable line in a create or update request
type CreateLineItemRequest struct {
	// description is the non-empty text describing the billed work or goods
	Description string `json:"description" validate:"required"`

	// quantity is the number of units billed, must be greater than zero
	Quantity int64 `json:"quantity" validate:"required"`

	// unit_price is the exact decimal price per unit, must be non negative
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (r *CreateLineItemRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.Quantity <= 0 {
		return ierr.NewError("quantity must be greater than zero").
			WithHint("Line item quantity must be a positive integer").
			WithReportableDetails(map[string]any{
				"quantity": r.Quantity,
			}).
			Mark(ierr.ErrValidation)
	}

	if r.UnitPrice.IsNegative() {
		return ierr.NewError("unit_price must be non-negative").
			WithHint("Line item unit price must not be negative").
			WithReportableDetails(map[string]any{
				"unit_price": r.UnitPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ToLineItem converts the request to a domain line item with its derived total
func (r *CreateLineItemRequest) ToLineItem(ctx context.Context) *invoice.LineItem {
	item := &invoice.LineItem{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	item.RecomputeTotal()
	return item
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.DueDate.Before(r.IssueDate) {
		return ierr.NewError("due_date must not be before issue_date").
			WithHint("The due date cannot precede the issue date").
			WithReportableDetails(map[string]any{
				"issue_date": r.IssueDate,
				"due_date":   r.DueDate,
			}).
			Mark(ierr.ErrValidation)
	}

	if r.InvoiceStatus != nil {
		if err := r.InvoiceStatus.Validate(); err != nil {
			return err
		}
	}

	for _, item := range r.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ToInvoice converts the request to a domain invoice owned by the
// authenticated user, with the total derived from its line items
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		UserID:        types.GetUserID(ctx),
		CustomerID:    r.CustomerID,
		IssueDate:     r.IssueDate,
		DueDate:       r.DueDate,
		InvoiceStatus: types.InvoiceStatusDraft,
		Notes:         r.Notes,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}

	if r.InvoiceNumber != nil {
		inv.InvoiceNumber = *r.InvoiceNumber
	}
	if r.InvoiceStatus != nil {
		inv.InvoiceStatus = *r.InvoiceStatus
	}

	for _, itemReq := range r.LineItems {
		item := itemReq.ToLineItem(ctx)
		item.InvoiceID = inv.ID
		inv.LineItems = append(inv.LineItems, item)
	}
	inv.RecomputeTotal()

	return inv
}

// UpdateInvoiceRequest represents the editable fields of an invoice.
// The total amount is never edited directly; it always derives from the
// line items.
type UpdateInvoiceRequest struct {
	CustomerID    *string              `json:"customer_id,omitempty"`
	InvoiceNumber *string              `json:"invoice_number,omitempty"`
	IssueDate     *time.Time           `json:"issue_date,omitempty"`
	DueDate       *time.Time           `json:"due_date,omitempty"`
	InvoiceStatus *types.InvoiceStatus `json:"invoice_status,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	if r.InvoiceStatus != nil {
		if err := r.InvoiceStatus.Validate(); err != nil {
			return err
		}
	}

	if r.IssueDate != nil && r.DueDate != nil && r.DueDate.Before(*r.IssueDate) {
		return ierr.NewError("due_date must not be before issue_date").
			WithHint("The due date cannot precede the issue date").
			Mark(ierr.ErrValidation)
	}

	if r.InvoiceNumber != nil && *r.InvoiceNumber == "" {
		return ierr.NewError("invoice_number must not be empty").
			WithHint("Provide a non-empty invoice number or omit the field").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// UpdateLineItemRequest represents a partial update of an existing line
// item. The total price is always re-derived, never supplied.
type UpdateLineItemRequest struct {
	Description *string          `json:"description,omitempty"`
	Quantity    *int64           `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

func (r *UpdateLineItemRequest) Validate() error {
	if r.Description != nil && *r.Description == "" {
		return ierr.NewError("description must not be empty").
			WithHint("Provide a non-empty description or omit the field").
			Mark(ierr.ErrValidation)
	}

	if r.Quantity != nil && *r.Quantity <= 0 {
		return ierr.NewError("quantity must be greater than zero").
			WithHint("Line item quantity must be a positive integer").
			WithReportableDetails(map[string]any{
				"quantity": *r.Quantity,
			}).
			Mark(ierr.ErrValidation)
	}

	if r.UnitPrice != nil && r.UnitPrice.IsNegative() {
		return ierr.NewError("unit_price must be non-negative").
			WithHint("Line item unit price must not be negative").
			WithReportableDetails(map[string]any{
				"unit_price": r.UnitPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	*invoice.Invoice

	// amount_paid is the cumulative amount received against this invoice
	AmountPaid decimal.Decimal `json:"amount_paid"`

	// amount_remaining is the amount still owed, clamped at zero
	AmountRemaining decimal.Decimal `json:"amount_remaining"`
}

// NewInvoiceResponse creates a new invoice response from a domain invoice
// and the cumulative amount paid against it
func NewInvoiceResponse(inv *invoice.Invoice, amountPaid decimal.Decimal) *InvoiceResponse {
	if inv == nil {
		return nil
	}
	return &InvoiceResponse{
		Invoice:         inv,
		AmountPaid:      amountPaid,
		AmountRemaining: inv.GetRemainingAmount(amountPaid),
	}
}

// ListInvoicesResponse represents a paginated list of invoices
type ListInvoicesResponse struct {
	Items      []*InvoiceResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}

// SharedInvoiceResponse is the read-only public view of an invoice granted
// to any holder of its share token
type SharedInvoiceResponse struct {
	Invoice  *InvoiceResponse   `json:"invoice"`
	Payments []*PaymentResponse `json:"payments"`
	Customer *CustomerResponse  `json:"customer,omitempty"`
}
