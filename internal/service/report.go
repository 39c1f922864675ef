package service

import (
	"context"
	"sort"

	"github.com/openbill/openbill/internal/api/dto"
	"github.com/openbill/openbill/internal/domain/invoice"
	"github.com/openbill/openbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// dashboardRecentLimit caps the recent-invoice list on the dashboard
const dashboardRecentLimit = 5

type ReportService interface {
	// BuildReport aggregates the user's invoices whose issue date falls
	// within the inclusive period. Revenue is recognized at issue date;
	// payment status only affects the paid/unpaid splits.
	BuildReport(ctx context.Context, req dto.GetReportRequest) (*dto.ReportResponse, error)

	// BuildDashboardSummary summarizes all of the user's invoices and lists
	// the most recently issued ones
	BuildDashboardSummary(ctx context.Context) (*dto.DashboardSummaryResponse, error)
}

type reportService struct {
	ServiceParams
}

// NewReportService creates a new report service
func NewReportService(params ServiceParams) ReportService {
	return &reportService{ServiceParams: params}
}

func (s *reportService) BuildReport(ctx context.Context, req dto.GetReportRequest) (*dto.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	periodEnd := now
	if req.PeriodEnd != nil {
		periodEnd = *req.PeriodEnd
	}
	periodStart := periodEnd.AddDate(-1, 0, 0)
	if req.PeriodStart != nil {
		periodStart = *req.PeriodStart
	}

	filter := types.NewNoLimitInvoiceFilter()
	filter.UserID = types.GetUserID(ctx)
	filter.IssuedAfter = &periodStart
	filter.IssuedBefore = &periodEnd

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReportResponse{
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		TotalRevenue:  decimal.Zero,
		TotalInvoices: len(invoices),
		PaidAmount:    decimal.Zero,
		UnpaidAmount:  decimal.Zero,
	}

	byCustomer := make(map[string]*dto.CustomerRevenue)
	byMonth := make(map[int]*dto.MonthlyRevenue)

	for _, inv := range invoices {
		resp.TotalRevenue = resp.TotalRevenue.Add(inv.TotalAmount)

		if inv.InvoiceStatus == types.InvoiceStatusPaid {
			resp.PaidInvoices++
			resp.PaidAmount = resp.PaidAmount.Add(inv.TotalAmount)
		} else {
			resp.UnpaidInvoices++
			resp.UnpaidAmount = resp.UnpaidAmount.Add(inv.TotalAmount)
		}
		if inv.IsOverdue(now) {
			resp.OverdueInvoices++
		}

		if inv.CustomerID != nil {
			cr, ok := byCustomer[*inv.CustomerID]
			if !ok {
				cr = &dto.CustomerRevenue{CustomerID: *inv.CustomerID, Revenue: decimal.Zero}
				byCustomer[*inv.CustomerID] = cr
			}
			cr.Revenue = cr.Revenue.Add(inv.TotalAmount)
			cr.InvoiceCount++
		}

		monthKey := inv.IssueDate.Year()*100 + int(inv.IssueDate.Month())
		mr, ok := byMonth[monthKey]
		if !ok {
			mr = &dto.MonthlyRevenue{
				Year:    inv.IssueDate.Year(),
				Month:   int(inv.IssueDate.Month()),
				Revenue: decimal.Zero,
			}
			byMonth[monthKey] = mr
		}
		mr.Revenue = mr.Revenue.Add(inv.TotalAmount)
		mr.InvoiceCount++
	}

	resp.RevenueByCustomer = s.customerRollup(ctx, byCustomer)

	resp.MonthlyRevenue = lo.Map(lo.Values(byMonth), func(mr *dto.MonthlyRevenue, _ int) dto.MonthlyRevenue {
		return *mr
	})
	sort.Slice(resp.MonthlyRevenue, func(i, j int) bool {
		a, b := resp.MonthlyRevenue[i], resp.MonthlyRevenue[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})

	return resp, nil
}

// customerRollup resolves customer names and orders the rollup by revenue
// descending, breaking ties on customer id for a stable order
func (s *reportService) customerRollup(ctx context.Context, byCustomer map[string]*dto.CustomerRevenue) []dto.CustomerRevenue {
	rollup := make([]dto.CustomerRevenue, 0, len(byCustomer))
	for _, cr := range byCustomer {
		cust, err := s.CustomerRepo.Get(ctx, cr.CustomerID)
		if err == nil {
			cr.CustomerName = cust.Name
		}
		rollup = append(rollup, *cr)
	}

	sort.Slice(rollup, func(i, j int) bool {
		if !rollup[i].Revenue.Equal(rollup[j].Revenue) {
			return rollup[i].Revenue.GreaterThan(rollup[j].Revenue)
		}
		return rollup[i].CustomerID < rollup[j].CustomerID
	})

	return rollup
}

func (s *reportService) BuildDashboardSummary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	now := s.Clock.Now()

	filter := types.NewNoLimitInvoiceFilter()
	filter.UserID = types.GetUserID(ctx)

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardSummaryResponse{
		TotalInvoices: len(invoices),
		TotalAmount:   decimal.Zero,
	}

	for _, inv := range invoices {
		resp.TotalAmount = resp.TotalAmount.Add(inv.TotalAmount)
		if inv.InvoiceStatus != types.InvoiceStatusPaid {
			resp.UnpaidInvoices++
		}
		if inv.IsOverdue(now) {
			resp.OverdueInvoices++
		}
	}

	recent := make([]*invoice.Invoice, len(invoices))
	copy(recent, invoices)
	sort.Slice(recent, func(i, j int) bool {
		if !recent[i].IssueDate.Equal(recent[j].IssueDate) {
			return recent[i].IssueDate.After(recent[j].IssueDate)
		}
		if !recent[i].CreatedAt.Equal(recent[j].CreatedAt) {
			return recent[i].CreatedAt.After(recent[j].CreatedAt)
		}
		return recent[i].ID > recent[j].ID
	})
	if len(recent) > dashboardRecentLimit {
		recent = recent[:dashboardRecentLimit]
	}

	resp.RecentInvoices = lo.Map(recent, func(inv *invoice.Invoice, _ int) dto.RecentInvoice {
		ri := dto.RecentInvoice{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			IssueDate:     inv.IssueDate,
			DueDate:       inv.DueDate,
			InvoiceStatus: inv.InvoiceStatus,
			TotalAmount:   inv.TotalAmount,
		}
		if inv.CustomerID != nil {
			if cust, err := s.CustomerRepo.Get(ctx, *inv.CustomerID); err == nil {
				ri.CustomerName = cust.Name
			}
		}
		return ri
	})

	return resp, nil
}
