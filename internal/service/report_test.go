package service

import (
	"testing"
	"time"

	"github.com/openbill/openbill/internal/api/dto"
	"github.com/openbill/openbill/internal/domain/customer"
	"github.com/openbill/openbill/internal/domain/invoice"
	"github.com/openbill/openbill/internal/testutil"
	"github.com/openbill/openbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReportServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  ReportService
	testData struct {
		customerA *customer.Customer
		customerB *customer.Customer
	}
}

func TestReportService(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}

func (s *ReportServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	// Pin the clock so overdue derivation and period defaults are stable
	s.GetClock().SetNow(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	s.service = NewReportService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		Clock:        s.GetClock(),
		InvoiceRepo:  s.GetStores().InvoiceRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		CustomerRepo: s.GetStores().CustomerRepo,
	})

	s.setupTestData()
}

func (s *ReportServiceSuite) setupTestData() {
	s.testData.customerA = &customer.Customer{
		ID:        "cust_a",
		UserID:    types.DefaultUserID,
		Name:      "Alpha GmbH",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.testData.customerB = &customer.Customer{
		ID:        "cust_b",
		UserID:    types.DefaultUserID,
		Name:      "Beta SA",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), s.testData.customerA))
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), s.testData.customerB))
}

func (s *ReportServiceSuite) seedInvoice(id, customerID, number string, issue time.Time, due time.Time, status types.InvoiceStatus, total string) {
	inv := &invoice.Invoice{
		ID:            id,
		UserID:        types.DefaultUserID,
		InvoiceNumber: number,
		IssueDate:     issue,
		DueDate:       due,
		InvoiceStatus: status,
		TotalAmount:   decimal.RequireFromString(total),
		LineItems: []*invoice.LineItem{
			{
				ID:          id + "_item",
				InvoiceID:   id,
				Description: "Work",
				Quantity:    1,
				UnitPrice:   decimal.RequireFromString(total),
				TotalPrice:  decimal.RequireFromString(total),
				BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
			},
		},
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	if customerID != "" {
		inv.CustomerID = lo.ToPtr(customerID)
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))
}

func (s *ReportServiceSuite) seedReportData() {
	date := func(month, day int) time.Time {
		return time.Date(2025, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}

	// March: one paid invoice for customer A
	s.seedInvoice("inv_1", "cust_a", "INV-1", date(3, 10), date(3, 24), types.InvoiceStatusPaid, "100.00")
	// April: one sent, overdue by the pinned clock, customer B
	s.seedInvoice("inv_2", "cust_b", "INV-2", date(4, 5), date(4, 19), types.InvoiceStatusSent, "300.00")
	// April: second invoice for customer A, not yet due
	s.seedInvoice("inv_3", "cust_a", "INV-3", date(4, 20), date(7, 1), types.InvoiceStatusSent, "200.00")
	// June: invoice with no customer
	s.seedInvoice("inv_4", "", "INV-4", date(6, 1), date(6, 30), types.InvoiceStatusDraft, "50.00")
	// Outside the requested period, must not be counted
	s.seedInvoice("inv_5", "cust_a", "INV-5", date(1, 1), date(1, 15), types.InvoiceStatusPaid, "999.00")
}

func (s *ReportServiceSuite) TestBuildReportAggregates() {
	s.seedReportData()

	periodStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	resp, err := s.service.BuildReport(s.GetContext(), dto.GetReportRequest{
		PeriodStart: &periodStart,
		PeriodEnd:   &periodEnd,
	})
	s.NoError(err)

	s.Equal(4, resp.TotalInvoices)
	s.True(resp.TotalRevenue.Equal(decimal.RequireFromString("650.00")))
	s.Equal(1, resp.PaidInvoices)
	s.Equal(3, resp.UnpaidInvoices)
	s.True(resp.PaidAmount.Equal(decimal.RequireFromString("100.00")))
	s.True(resp.UnpaidAmount.Equal(decimal.RequireFromString("550.00")))
	// paid and unpaid always partition total revenue
	s.True(resp.PaidAmount.Add(resp.UnpaidAmount).Equal(resp.TotalRevenue))
	// inv_2 is past due and unpaid at the pinned clock
	s.Equal(1, resp.OverdueInvoices)
}

func (s *ReportServiceSuite) TestBuildReportCustomerRollupOrder() {
	s.seedReportData()

	periodStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	resp, err := s.service.BuildReport(s.GetContext(), dto.GetReportRequest{
		PeriodStart: &periodStart,
		PeriodEnd:   &periodEnd,
	})
	s.NoError(err)

	s.Len(resp.RevenueByCustomer, 2)
	// Both customers total 300.00; the tie breaks on customer id ascending
	s.Equal("cust_a", resp.RevenueByCustomer[0].CustomerID)
	s.Equal("Alpha GmbH", resp.RevenueByCustomer[0].CustomerName)
	s.True(resp.RevenueByCustomer[0].Revenue.Equal(decimal.RequireFromString("300.00")))
	s.Equal(2, resp.RevenueByCustomer[0].InvoiceCount)
	s.Equal("cust_b", resp.RevenueByCustomer[1].CustomerID)
	s.True(resp.RevenueByCustomer[1].Revenue.Equal(decimal.RequireFromString("300.00")))
}

func (s *ReportServiceSuite) TestBuildReportMonthlyRollupOrder() {
	s.seedReportData()

	periodStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	resp, err := s.service.BuildReport(s.GetContext(), dto.GetReportRequest{
		PeriodStart: &periodStart,
		PeriodEnd:   &periodEnd,
	})
	s.NoError(err)

	s.Len(resp.MonthlyRevenue, 3)
	s.Equal(3, resp.MonthlyRevenue[0].Month)
	s.True(resp.MonthlyRevenue[0].Revenue.Equal(decimal.RequireFromString("100.00")))
	s.Equal(4, resp.MonthlyRevenue[1].Month)
	s.True(resp.MonthlyRevenue[1].Revenue.Equal(decimal.RequireFromString("500.00")))
	s.Equal(2, resp.MonthlyRevenue[1].InvoiceCount)
	s.Equal(6, resp.MonthlyRevenue[2].Month)
	s.True(resp.MonthlyRevenue[2].Revenue.Equal(decimal.RequireFromString("50.00")))
}

func (s *ReportServiceSuite) TestBuildReportDefaultsToTrailingYear() {
	s.seedReportData()

	resp, err := s.service.BuildReport(s.GetContext(), dto.GetReportRequest{})
	s.NoError(err)

	s.Equal(s.GetClock().Now(), resp.PeriodEnd)
	s.Equal(s.GetClock().Now().AddDate(-1, 0, 0), resp.PeriodStart)
	// Everything seeded in 2025 falls inside the trailing year
	s.Equal(5, resp.TotalInvoices)
}

func (s *ReportServiceSuite) TestBuildReportRejectsInvertedPeriod() {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.service.BuildReport(s.GetContext(), dto.GetReportRequest{
		PeriodStart: &start,
		PeriodEnd:   &end,
	})
	s.Error(err)
}

func (s *ReportServiceSuite) TestBuildDashboardSummary() {
	s.seedReportData()
	// A sixth invoice so the recent list has to truncate
	s.seedInvoice("inv_6", "cust_b", "INV-6", time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC), types.InvoiceStatusSent, "75.00")

	resp, err := s.service.BuildDashboardSummary(s.GetContext())
	s.NoError(err)

	s.Equal(6, resp.TotalInvoices)
	s.True(resp.TotalAmount.Equal(decimal.RequireFromString("1724.00")))
	// inv_1 and inv_5 are paid
	s.Equal(4, resp.UnpaidInvoices)
	// inv_2 and inv_6 are past due and unpaid at the pinned clock
	s.Equal(2, resp.OverdueInvoices)

	s.Len(resp.RecentInvoices, 5)
	// Most recently issued first
	s.Equal("inv_4", resp.RecentInvoices[0].ID)
	s.Equal("inv_6", resp.RecentInvoices[1].ID)
	s.Equal("inv_3", resp.RecentInvoices[2].ID)
	s.Equal("inv_2", resp.RecentInvoices[3].ID)
	s.Equal("inv_1", resp.RecentInvoices[4].ID)
	// The oldest invoice falls off the list
	s.Equal("Beta SA", resp.RecentInvoices[1].CustomerName)
}

func (s *ReportServiceSuite) TestBuildDashboardSummaryEmpty() {
	resp, err := s.service.BuildDashboardSummary(s.GetContext())
	s.NoError(err)

	s.Equal(0, resp.TotalInvoices)
	s.True(resp.TotalAmount.IsZero())
	s.Empty(resp.RecentInvoices)
}
