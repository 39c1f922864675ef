package service

import (
	"testing"
	"time"

	"github.com/openbill/openbill/internal/api/dto"
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/testutil"
	"github.com/openbill/openbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service        PaymentService
	invoiceService InvoiceService
	testData       struct {
		invoice *dto.InvoiceResponse
	}
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *PaymentServiceSuite) setupService() {
	params := ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		Clock:        s.GetClock(),
		InvoiceRepo:  s.GetStores().InvoiceRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		CustomerRepo: s.GetStores().CustomerRepo,
	}
	s.service = NewPaymentService(params)
	s.invoiceService = NewInvoiceService(params)
}

func (s *PaymentServiceSuite) setupTestData() {
	issue := s.GetNow()
	created, err := s.invoiceService.CreateInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, 14),
		LineItems: []dto.CreateLineItemRequest{
			{
				Description: "Retainer",
				Quantity:    1,
				UnitPrice:   decimal.RequireFromString("250.00"),
			},
		},
	})
	s.NoError(err)

	created, err = s.invoiceService.UpdateInvoice(s.GetContext(), created.ID, dto.UpdateInvoiceRequest{
		InvoiceStatus: lo.ToPtr(types.InvoiceStatusSent),
	})
	s.NoError(err)
	s.testData.invoice = created
}

func (s *PaymentServiceSuite) recordPayment(amount string) *dto.RecordPaymentResponse {
	resp, err := s.service.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		InvoiceID:     s.testData.invoice.ID,
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: "bank_transfer",
	})
	s.NoError(err)
	return resp
}

func (s *PaymentServiceSuite) TestPartialPaymentLeavesInvoiceUnpaid() {
	resp := s.recordPayment("100.00")

	s.True(resp.Reconciled)
	s.NotNil(resp.Invoice)
	s.Equal(types.InvoiceStatusSent, resp.Invoice.InvoiceStatus)
	s.True(resp.Invoice.AmountPaid.Equal(decimal.RequireFromString("100.00")))
	s.True(resp.Invoice.AmountRemaining.Equal(decimal.RequireFromString("150.00")))
}

func (s *PaymentServiceSuite) TestCumulativePaymentsMarkInvoicePaid() {
	s.recordPayment("100.00")
	resp := s.recordPayment("150.00")

	s.True(resp.Reconciled)
	s.Equal(types.InvoiceStatusPaid, resp.Invoice.InvoiceStatus)
	s.True(resp.Invoice.AmountRemaining.IsZero())
}

func (s *PaymentServiceSuite) TestOverpaymentIsAcceptedAndMarksPaid() {
	resp := s.recordPayment("300.00")

	s.True(resp.Reconciled)
	s.Equal(types.InvoiceStatusPaid, resp.Invoice.InvoiceStatus)
	s.True(resp.Invoice.AmountPaid.Equal(decimal.RequireFromString("300.00")))
	// Remaining is clamped at zero for display
	s.True(resp.Invoice.AmountRemaining.IsZero())
}

func (s *PaymentServiceSuite) TestExactPaymentMarksPaid() {
	resp := s.recordPayment("250.00")

	s.Equal(types.InvoiceStatusPaid, resp.Invoice.InvoiceStatus)
}

func (s *PaymentServiceSuite) TestPaymentAgainstMissingInvoiceIsKept() {
	resp, err := s.service.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		InvoiceID:     "inv_missing",
		Amount:        decimal.RequireFromString("50.00"),
		PaymentMethod: "cash",
	})
	s.NoError(err)

	s.False(resp.Reconciled)
	s.Nil(resp.Invoice)
	s.NotNil(resp.Payment)

	// The payment itself is persisted
	stored, err := s.GetStores().PaymentRepo.Get(s.GetContext(), resp.Payment.ID)
	s.NoError(err)
	s.Equal("inv_missing", stored.InvoiceID)
}

func (s *PaymentServiceSuite) TestRecordPaymentRejectsNonPositiveAmount() {
	_, err := s.service.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		InvoiceID:     s.testData.invoice.ID,
		Amount:        decimal.Zero,
		PaymentMethod: "cash",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestReconciliationRefreshesInvoiceUpdatedAt() {
	s.GetClock().Advance(time.Hour)

	resp := s.recordPayment("10.00")
	s.Equal(s.GetClock().Now(), resp.Invoice.UpdatedAt)
}

func (s *PaymentServiceSuite) TestDeletePaymentDemotesPaidInvoice() {
	resp := s.recordPayment("250.00")
	s.Equal(types.InvoiceStatusPaid, resp.Invoice.InvoiceStatus)

	s.NoError(s.service.DeletePayment(s.GetContext(), resp.Payment.ID))

	inv, err := s.invoiceService.GetInvoice(s.GetContext(), s.testData.invoice.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusSent, inv.InvoiceStatus)
	s.True(inv.AmountPaid.IsZero())
}

func (s *PaymentServiceSuite) TestDeletePaymentKeepsPaidWhenStillCovered() {
	s.recordPayment("250.00")
	second := s.recordPayment("50.00")
	s.Equal(types.InvoiceStatusPaid, second.Invoice.InvoiceStatus)

	// Removing the overpayment leaves the invoice fully covered
	s.NoError(s.service.DeletePayment(s.GetContext(), second.Payment.ID))

	inv, err := s.invoiceService.GetInvoice(s.GetContext(), s.testData.invoice.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
	s.True(inv.AmountPaid.Equal(decimal.RequireFromString("250.00")))
}

func (s *PaymentServiceSuite) TestDeletePaymentNotFound() {
	err := s.service.DeletePayment(s.GetContext(), "pay_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PaymentServiceSuite) TestListPaymentsByInvoice() {
	s.recordPayment("100.00")
	s.recordPayment("25.00")

	other, err := s.service.RecordPayment(s.GetContext(), dto.CreatePaymentRequest{
		InvoiceID:     "inv_other",
		Amount:        decimal.RequireFromString("5.00"),
		PaymentMethod: "cash",
	})
	s.NoError(err)
	s.False(other.Reconciled)

	filter := types.NewPaymentFilter()
	filter.InvoiceID = s.testData.invoice.ID

	resp, err := s.service.ListPayments(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)
}

func (s *PaymentServiceSuite) TestGetPayment() {
	recorded := s.recordPayment("40.00")

	p, err := s.service.GetPayment(s.GetContext(), recorded.Payment.ID)
	s.NoError(err)
	s.True(p.Amount.Equal(decimal.RequireFromString("40.00")))
	s.Equal("bank_transfer", p.PaymentMethod)
}
