package service

import (
	"context"
	"errors"

	"github.com/openbill/openbill/internal/api/dto"
	"github.com/openbill/openbill/internal/domain/invoice"
	"github.com/openbill/openbill/internal/domain/payment"
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type PaymentService interface {
	// RecordPayment persists the payment and reconciles the owning invoice's
	// status in the same transaction. The payment is persisted even when the
	// invoice does not exist; the response reports that reconciliation was
	// skipped rather than failing or silently dropping the condition.
	RecordPayment(ctx context.Context, req dto.CreatePaymentRequest) (*dto.RecordPaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error)

	// DeletePayment removes the payment and re-evaluates the invoice: a PAID
	// invoice whose remaining payments no longer cover the total is demoted
	// back to SENT
	DeletePayment(ctx context.Context, id string) error
}

type paymentService struct {
	ServiceParams
}

// NewPaymentService creates a new payment service
func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

func (s *paymentService) RecordPayment(ctx context.Context, req dto.CreatePaymentRequest) (*dto.RecordPaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPayment(ctx, s.Clock.Now())
	if err := p.Validate(); err != nil {
		return nil, err
	}

	resp := &dto.RecordPaymentResponse{}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.PaymentRepo.Create(ctx, p); err != nil {
			return err
		}
		resp.Payment = dto.NewPaymentResponse(p)

		inv, err := s.InvoiceRepo.GetForUpdate(ctx, p.InvoiceID)
		if err != nil {
			if errors.Is(err, invoice.ErrInvoiceNotFound) {
				// Orphan payment: keep it, surface the skipped reconciliation
				s.Logger.Warnw("recorded payment against missing invoice, reconciliation skipped",
					"payment_id", p.ID,
					"invoice_id", p.InvoiceID)
				resp.Reconciled = false
				return nil
			}
			return err
		}

		totalPaid, err := s.totalPaid(ctx, inv.ID)
		if err != nil {
			return err
		}

		if err := s.reconcile(ctx, inv, totalPaid); err != nil {
			return err
		}

		resp.Invoice = dto.NewInvoiceResponse(inv, totalPaid)
		resp.Reconciled = true
		return nil
	})
	if err != nil {
		s.Logger.Errorw("failed to record payment",
			"error", err,
			"invoice_id", req.InvoiceID)
		return nil, err
	}

	return resp, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return nil, ierr.NewError("payment not found").
				WithHintf("Payment with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}
	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error) {
	if filter == nil {
		filter = types.NewPaymentFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.PaymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListPaymentsResponse{
		Items: lo.Map(payments, func(p *payment.Payment, _ int) *dto.PaymentResponse {
			return dto.NewPaymentResponse(p)
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *paymentService) DeletePayment(ctx context.Context, id string) error {
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		p, err := s.PaymentRepo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, payment.ErrPaymentNotFound) {
				return ierr.NewError("payment not found").
					WithHintf("Payment with ID %s was not found", id).
					Mark(ierr.ErrNotFound)
			}
			return err
		}

		if err := s.PaymentRepo.Delete(ctx, id); err != nil {
			return err
		}

		inv, err := s.InvoiceRepo.GetForUpdate(ctx, p.InvoiceID)
		if err != nil {
			if errors.Is(err, invoice.ErrInvoiceNotFound) {
				return nil
			}
			return err
		}

		totalPaid, err := s.totalPaid(ctx, inv.ID)
		if err != nil {
			return err
		}

		// Deleting a payment can drop coverage below the total; a PAID
		// invoice must not stay PAID when it is no longer fully covered
		if inv.InvoiceStatus == types.InvoiceStatusPaid && totalPaid.LessThan(inv.TotalAmount) {
			s.Logger.Infow("demoting invoice after payment deletion",
				"invoice_id", inv.ID,
				"total_paid", totalPaid.String(),
				"total_amount", inv.TotalAmount.String())
			inv.InvoiceStatus = types.InvoiceStatusSent
			inv.UpdatedAt = s.Clock.Now()
			inv.UpdatedBy = types.GetUserID(ctx)
			return s.InvoiceRepo.Update(ctx, inv)
		}

		return nil
	})
	if err != nil {
		s.Logger.Errorw("failed to delete payment",
			"error", err,
			"payment_id", id)
		return err
	}

	return nil
}

// reconcile marks the invoice PAID when cumulative payments cover the total.
// Overpayment counts as covered. The invoice row is written even when the
// status is unchanged so UpdatedAt reflects the reconciliation.
func (s *paymentService) reconcile(ctx context.Context, inv *invoice.Invoice, totalPaid decimal.Decimal) error {
	if totalPaid.GreaterThanOrEqual(inv.TotalAmount) && inv.InvoiceStatus != types.InvoiceStatusPaid {
		s.Logger.Infow("invoice fully paid",
			"invoice_id", inv.ID,
			"total_paid", totalPaid.String(),
			"total_amount", inv.TotalAmount.String())
		inv.InvoiceStatus = types.InvoiceStatusPaid
	}

	inv.UpdatedAt = s.Clock.Now()
	inv.UpdatedBy = types.GetUserID(ctx)
	return s.InvoiceRepo.Update(ctx, inv)
}

func (s *paymentService) totalPaid(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	payments, err := s.PaymentRepo.ListByInvoiceID(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	return payment.TotalPaid(payments), nil
}
