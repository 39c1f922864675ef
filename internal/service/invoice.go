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

// shareTokenBytes sizes the opaque share token at 128 bits
const shareTokenBytes = 16

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error

	// Line item mutations; each rewrites the invoice total in the same
	// transaction so the stored total is never stale relative to the items
	AddLineItem(ctx context.Context, invoiceID string, req dto.CreateLineItemRequest) (*dto.InvoiceResponse, error)
	UpdateLineItem(ctx context.Context, invoiceID, itemID string, req dto.UpdateLineItemRequest) (*dto.InvoiceResponse, error)
	RemoveLineItem(ctx context.Context, invoiceID, itemID string) (*dto.InvoiceResponse, error)

	// EnsureShareToken returns the invoice's share token, generating and
	// persisting one on first call; generating twice never rotates it
	EnsureShareToken(ctx context.Context, id string) (string, error)

	// GetSharedInvoice resolves a share token to the read-only public view
	GetSharedInvoice(ctx context.Context, token string) (*dto.SharedInvoiceResponse, error)
}

type invoiceService struct {
	ServiceParams
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv := req.ToInvoice(ctx)

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		if inv.InvoiceNumber == "" {
			inv.InvoiceNumber = types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_INVOICE_NUMBER)
		}

		existing, err := s.InvoiceRepo.GetByInvoiceNumber(ctx, inv.UserID, inv.InvoiceNumber)
		if err != nil && !errors.Is(err, invoice.ErrInvoiceNotFound) {
			return err
		}
		if existing != nil {
			return ierr.NewError("invoice number already exists").
				WithHint("An invoice with this number already exists for this user").
				WithReportableDetails(map[string]any{
					"invoice_number": inv.InvoiceNumber,
				}).
				Mark(ierr.ErrAlreadyExists)
		}

		if err := inv.Validate(); err != nil {
			return err
		}

		return s.InvoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		s.Logger.Errorw("failed to create invoice",
			"error", err,
			"user_id", inv.UserID)
		return nil, err
	}

	return dto.NewInvoiceResponse(inv, decimal.Zero), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, invoice.ErrInvoiceNotFound) {
			return nil, ierr.NewError("invoice not found").
				WithHintf("Invoice with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}

	amountPaid, err := s.amountPaid(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv, amountPaid), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if filter.UserID == "" {
		filter.UserID = types.GetUserID(ctx)
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		amountPaid, err := s.amountPaid(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		items[i] = dto.NewInvoiceResponse(inv, amountPaid)
	}

	return &dto.ListInvoicesResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var inv *invoice.Invoice
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, invoice.ErrInvoiceNotFound) {
				return ierr.NewError("invoice not found").
					WithHintf("Invoice with ID %s was not found", id).
					Mark(ierr.ErrNotFound)
			}
			return err
		}

		if req.InvoiceStatus != nil && *req.InvoiceStatus != inv.InvoiceStatus {
			if !inv.InvoiceStatus.CanTransitionTo(*req.InvoiceStatus) {
				return ierr.NewError("invalid status transition").
					WithHintf("Cannot change invoice status from %s to %s", inv.InvoiceStatus, *req.InvoiceStatus).
					Mark(ierr.ErrInvalidOperation)
			}
			inv.InvoiceStatus = *req.InvoiceStatus
		}

		if req.CustomerID != nil {
			inv.CustomerID = req.CustomerID
		}
		if req.InvoiceNumber != nil {
			inv.InvoiceNumber = *req.InvoiceNumber
		}
		if req.IssueDate != nil {
			inv.IssueDate = *req.IssueDate
		}
		if req.DueDate != nil {
			inv.DueDate = *req.DueDate
		}
		if req.Notes != nil {
			inv.Notes = *req.Notes
		}

		inv.UpdatedAt = s.Clock.Now()
		inv.UpdatedBy = types.GetUserID(ctx)

		if err := inv.Validate(); err != nil {
			return err
		}

		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	amountPaid, err := s.amountPaid(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv, amountPaid), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	err := s.InvoiceRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, invoice.ErrInvoiceNotFound) {
			return ierr.NewError("invoice not found").
				WithHintf("Invoice with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *invoiceService) AddLineItem(ctx context.Context, invoiceID string, req dto.CreateLineItemRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var inv *invoice.Invoice
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			if errors.Is(err, invoice.ErrInvoiceNotFound) {
				return ierr.NewError("invoice not found").
					WithHintf("Invoice with ID %s was not found", invoiceID).
					Mark(ierr.ErrNotFound)
			}
			return err
		}

		item := req.ToLineItem(ctx)
		item.InvoiceID = inv.ID
		inv.LineItems = append(inv.LineItems, item)

		return s.saveRecomputed(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, inv)
}

func (s *invoiceService) UpdateLineItem(ctx context.Context, invoiceID, itemID string, req dto.UpdateLineItemRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var inv *invoice.Invoice
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			if errors.Is(err, invoice.ErrInvoiceNotFound) {
				return ierr.NewError("invoice not found").
					WithHintf("Invoice with ID %s was not found", invoiceID).
					Mark(ierr.ErrNotFound)
			}
			return err
		}

		item, found := lo.Find(inv.LineItems, func(i *invoice.LineItem) bool {
			return i.ID == itemID
		})
		if !found {
			return ierr.NewError("line item not found").
				WithHintf("Line item with ID %s was not found on invoice %s", itemID, invoiceID).
				Mark(ierr.ErrNotFound)
		}

		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.UnitPrice != nil {
			item.UnitPrice = *req.UnitPrice
		}
		item.RecomputeTotal()
		item.UpdatedAt = s.Clock.Now()
		item.UpdatedBy = types.GetUserID(ctx)

		return s.saveRecomputed(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, inv)
}

func (s *invoiceService) RemoveLineItem(ctx context.Context, invoiceID, itemID string) (*dto.InvoiceResponse, error) {
	var inv *invoice.Invoice
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.InvoiceRepo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			if errors.Is(err, invoice.ErrInvoiceNotFound) {
				return ierr.NewError("invoice not found").
					WithHintf("Invoice with ID %s was not found", invoiceID).
					Mark(ierr.ErrNotFound)
			}
			return err
		}

		before := len(inv.LineItems)
		inv.LineItems = lo.Filter(inv.LineItems, func(i *invoice.LineItem, _ int) bool {
			return i.ID != itemID
		})
		if len(inv.LineItems) == before {
			return ierr.NewError("line item not found").
				WithHintf("Line item with ID %s was not found on invoice %s", itemID, invoiceID).
				Mark(ierr.ErrNotFound)
		}

		return s.saveRecomputed(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, inv)
}

func (s *invoiceService) EnsureShareToken(ctx context.Context, id string) (string, error) {
	var token string
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		inv, err := s.InvoiceRepo.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, invoice.ErrInvoiceNotFound) {
				return ierr.NewError("invoice not found").
					WithHintf("Invoice with ID %s was not found", id).
					Mark(ierr.ErrNotFound)
			}
			return err
		}

		// Idempotent: an existing token is never rotated
		if inv.ShareToken != nil && *inv.ShareToken != "" {
			token = *inv.ShareToken
			return nil
		}

		token, err = types.GenerateSecureToken(shareTokenBytes)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to generate share token").
				Mark(ierr.ErrSystem)
		}

		inv.ShareToken = &token
		inv.UpdatedAt = s.Clock.Now()
		inv.UpdatedBy = types.GetUserID(ctx)

		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

func (s *invoiceService) GetSharedInvoice(ctx context.Context, token string) (*dto.SharedInvoiceResponse, error) {
	if token == "" {
		return nil, ierr.NewError("share token is required").
			WithHint("Provide a non-empty share token").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.GetByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, invoice.ErrInvoiceNotFound) {
			return nil, ierr.NewError("invoice not found").
				WithHint("No invoice matches this share token").
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}

	payments, err := s.PaymentRepo.ListByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SharedInvoiceResponse{
		Invoice: dto.NewInvoiceResponse(inv, payment.TotalPaid(payments)),
		Payments: lo.Map(payments, func(p *payment.Payment, _ int) *dto.PaymentResponse {
			return dto.NewPaymentResponse(p)
		}),
	}

	if inv.CustomerID != nil {
		cust, err := s.CustomerRepo.Get(ctx, *inv.CustomerID)
		if err == nil {
			resp.Customer = dto.NewCustomerResponse(cust)
		}
	}

	return resp, nil
}

// saveRecomputed rewrites the derived invoice total and persists the invoice
// inside the caller's transaction
func (s *invoiceService) saveRecomputed(ctx context.Context, inv *invoice.Invoice) error {
	inv.RecomputeTotal()
	inv.UpdatedAt = s.Clock.Now()
	inv.UpdatedBy = types.GetUserID(ctx)

	if err := inv.Validate(); err != nil {
		return err
	}

	return s.InvoiceRepo.Update(ctx, inv)
}

func (s *invoiceService) amountPaid(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	payments, err := s.PaymentRepo.ListByInvoiceID(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	return payment.TotalPaid(payments), nil
}

func (s *invoiceService) toResponse(ctx context.Context, inv *invoice.Invoice) (*dto.InvoiceResponse, error) {
	amountPaid, err := s.amountPaid(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv, amountPaid), nil
}
