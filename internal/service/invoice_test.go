package service

import (
	"testing"
	"time"

	"github.com/openbill/openbill/internal/api/dto"
	"github.com/openbill/openbill/internal/domain/customer"
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/testutil"
	"github.com/openbill/openbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  InvoiceService
	testData struct {
		customer *customer.Customer
	}
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *InvoiceServiceSuite) setupService() {
	s.service = NewInvoiceService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		Clock:        s.GetClock(),
		InvoiceRepo:  s.GetStores().InvoiceRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		CustomerRepo: s.GetStores().CustomerRepo,
	})
}

func (s *InvoiceServiceSuite) setupTestData() {
	s.testData.customer = &customer.Customer{
		ID:        "cust_test_invoice",
		UserID:    types.DefaultUserID,
		Name:      "Acme Ltd",
		Email:     "billing@acme.test",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), s.testData.customer))
}

func (s *InvoiceServiceSuite) newCreateRequest() dto.CreateInvoiceRequest {
	issue := s.GetNow()
	return dto.CreateInvoiceRequest{
		CustomerID: lo.ToPtr(s.testData.customer.ID),
		IssueDate:  issue,
		DueDate:    issue.AddDate(0, 0, 30),
		LineItems: []dto.CreateLineItemRequest{
			{
				Description: "Consulting",
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("75.00"),
			},
			{
				Description: "Support hours",
				Quantity:    4,
				UnitPrice:   decimal.RequireFromString("25.00"),
			},
		},
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoiceComputesTotalFromLineItems() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.NotNil(resp)

	s.True(resp.TotalAmount.Equal(decimal.RequireFromString("250.00")),
		"expected 250.00, got %s", resp.TotalAmount)
	s.Equal(types.InvoiceStatusDraft, resp.InvoiceStatus)
	s.Len(resp.LineItems, 2)
	s.True(resp.LineItems[0].TotalPrice.Equal(decimal.RequireFromString("150.00")))
	s.True(resp.AmountPaid.IsZero())
	s.True(resp.AmountRemaining.Equal(resp.TotalAmount))
	s.Contains(resp.InvoiceNumber, "INV-")
}

func (s *InvoiceServiceSuite) TestCreateInvoiceWithoutItemsTotalsZero() {
	req := s.newCreateRequest()
	req.LineItems = nil

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.True(resp.TotalAmount.IsZero())
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRejectsDuplicateNumber() {
	req := s.newCreateRequest()
	req.InvoiceNumber = lo.ToPtr("INV-DUP")

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)

	_, err = s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRejectsDueBeforeIssue() {
	req := s.newCreateRequest()
	req.DueDate = req.IssueDate.AddDate(0, 0, -1)

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceRejectsZeroQuantity() {
	req := s.newCreateRequest()
	req.LineItems[0].Quantity = 0

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestAddLineItemRecomputesTotal() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	resp, err := s.service.AddLineItem(s.GetContext(), created.ID, dto.CreateLineItemRequest{
		Description: "Travel",
		Quantity:    1,
		UnitPrice:   decimal.RequireFromString("50.00"),
	})
	s.NoError(err)
	s.Len(resp.LineItems, 3)
	s.True(resp.TotalAmount.Equal(decimal.RequireFromString("300.00")))
}

func (s *InvoiceServiceSuite) TestUpdateLineItemRecomputesTotal() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	itemID := created.LineItems[0].ID
	resp, err := s.service.UpdateLineItem(s.GetContext(), created.ID, itemID, dto.UpdateLineItemRequest{
		Quantity: lo.ToPtr(int64(3)),
	})
	s.NoError(err)

	// 3 x 75.00 + 4 x 25.00
	s.True(resp.TotalAmount.Equal(decimal.RequireFromString("325.00")))
}

func (s *InvoiceServiceSuite) TestRemoveLineItemRecomputesTotal() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	resp, err := s.service.RemoveLineItem(s.GetContext(), created.ID, created.LineItems[0].ID)
	s.NoError(err)
	s.Len(resp.LineItems, 1)
	s.True(resp.TotalAmount.Equal(decimal.RequireFromString("100.00")))
}

func (s *InvoiceServiceSuite) TestRemoveLineItemNotFound() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	_, err = s.service.RemoveLineItem(s.GetContext(), created.ID, "inv_line_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceStatusTransition() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	resp, err := s.service.UpdateInvoice(s.GetContext(), created.ID, dto.UpdateInvoiceRequest{
		InvoiceStatus: lo.ToPtr(types.InvoiceStatusSent),
	})
	s.NoError(err)
	s.Equal(types.InvoiceStatusSent, resp.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceRejectsDirectPaidTransition() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	_, err = s.service.UpdateInvoice(s.GetContext(), created.ID, dto.UpdateInvoiceRequest{
		InvoiceStatus: lo.ToPtr(types.InvoiceStatusPaid),
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestGetInvoiceNotFound() {
	_, err := s.service.GetInvoice(s.GetContext(), "inv_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestListInvoicesFiltersByStatus() {
	_, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	_, err = s.service.UpdateInvoice(s.GetContext(), created.ID, dto.UpdateInvoiceRequest{
		InvoiceStatus: lo.ToPtr(types.InvoiceStatusSent),
	})
	s.NoError(err)

	filter := types.NewInvoiceFilter()
	filter.InvoiceStatus = []types.InvoiceStatus{types.InvoiceStatusSent}

	resp, err := s.service.ListInvoices(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(created.ID, resp.Items[0].ID)
	s.Equal(1, resp.Pagination.Total)
}

func (s *InvoiceServiceSuite) TestEnsureShareTokenIsIdempotent() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	token, err := s.service.EnsureShareToken(s.GetContext(), created.ID)
	s.NoError(err)
	s.Len(token, 32) // 16 random bytes, hex encoded

	again, err := s.service.EnsureShareToken(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(token, again)
}

func (s *InvoiceServiceSuite) TestGetSharedInvoice() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	token, err := s.service.EnsureShareToken(s.GetContext(), created.ID)
	s.NoError(err)

	shared, err := s.service.GetSharedInvoice(s.GetContext(), token)
	s.NoError(err)
	s.Equal(created.ID, shared.Invoice.ID)
	s.NotNil(shared.Customer)
	s.Equal(s.testData.customer.Name, shared.Customer.Name)
	s.Empty(shared.Payments)
}

func (s *InvoiceServiceSuite) TestGetSharedInvoiceUnknownToken() {
	_, err := s.service.GetSharedInvoice(s.GetContext(), "deadbeefdeadbeefdeadbeefdeadbeef")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestDeleteInvoice() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	s.NoError(s.service.DeleteInvoice(s.GetContext(), created.ID))

	_, err = s.service.GetInvoice(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceRefreshesUpdatedAt() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	s.GetClock().Advance(time.Hour)

	resp, err := s.service.UpdateInvoice(s.GetContext(), created.ID, dto.UpdateInvoiceRequest{
		Notes: lo.ToPtr("net 30"),
	})
	s.NoError(err)
	s.Equal(s.GetClock().Now(), resp.UpdatedAt)
}
