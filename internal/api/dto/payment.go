package dto

import (
	"context"
	"time"

	"github.com/openbill/openbill/internal/domain/payment"
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/types"
	"github.com/openbill/openbill/internal/validator"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest represents the request payload for recording a payment
type CreatePaymentRequest struct {
	// invoice_id is the invoice this payment is recorded against
	InvoiceID string `json:"invoice_id" validate:"required"`

	// amount is the received amount, must be greater than zero
	Amount decimal.Decimal `json:"amount"`

	// payment_date is when the payment was received; defaults to now
	PaymentDate *time.Time `json:"payment_date,omitempty"`

	// payment_method is free text describing how the payment was made
	PaymentMethod string `json:"payment_method" validate:"required"`

	// reference is an optional external reference such as a bank statement line
	Reference string `json:"reference,omitempty"`
}

func (r *CreatePaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if !r.Amount.IsPositive() {
		return ierr.NewError("amount must be greater than zero").
			WithHint("Payment amount must be positive").
			WithReportableDetails(map[string]any{
				"amount": r.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ToPayment converts the request to a domain payment
func (r *CreatePaymentRequest) ToPayment(ctx context.Context, now time.Time) *payment.Payment {
	paymentDate := now
	if r.PaymentDate != nil {
		paymentDate = *r.PaymentDate
	}

	return &payment.Payment{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:     r.InvoiceID,
		Amount:        r.Amount,
		PaymentDate:   paymentDate,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	*payment.Payment
}

// NewPaymentResponse creates a new payment response from a domain payment
func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{Payment: p}
}

// RecordPaymentResponse is the explicit result of recording a payment.
// The payment is always persisted; Reconciled reports whether the owning
// invoice was found and its status re-evaluated. A missing invoice is a
// surfaced condition, not a silent no-op.
type RecordPaymentResponse struct {
	Payment *PaymentResponse `json:"payment"`

	// invoice is the reconciled invoice, nil when it was not found
	Invoice *InvoiceResponse `json:"invoice,omitempty"`

	// reconciled is false when the invoice referenced by the payment does
	// not exist and reconciliation was skipped
	Reconciled bool `json:"reconciled"`
}

// ListPaymentsResponse represents a paginated list of payments
type ListPaymentsResponse struct {
	Items      []*PaymentResponse       `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
