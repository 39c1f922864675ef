package dto

import (
	"time"

	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/types"
	"github.com/shopspring/decimal"
)

// GetReportRequest represents the request for a period revenue report.
// Both bounds are inclusive; unset bounds default to the trailing year.
type GetReportRequest struct {
	PeriodStart *time.Time `json:"period_start,omitempty" form:"period_start"`
	PeriodEnd   *time.Time `json:"period_end,omitempty" form:"period_end"`
}

func (r *GetReportRequest) Validate() error {
	if r.PeriodStart != nil && r.PeriodEnd != nil && r.PeriodEnd.Before(*r.PeriodStart) {
		return ierr.NewError("period_end must not be before period_start").
			WithHint("Invalid report period").
			WithReportableDetails(map[string]any{
				"period_start": r.PeriodStart,
				"period_end":   r.PeriodEnd,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CustomerRevenue is a per-customer revenue rollup within a report period
type CustomerRevenue struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Revenue      decimal.Decimal `json:"revenue"`
	InvoiceCount int             `json:"invoice_count"`
}

// MonthlyRevenue is a per-month revenue rollup within a report period
type MonthlyRevenue struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Revenue      decimal.Decimal `json:"revenue"`
	InvoiceCount int             `json:"invoice_count"`
}

// ReportResponse aggregates a user's invoices over an inclusive period.
// Revenue is recognized at issue date, independent of payment.
type ReportResponse struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalInvoices   int             `json:"total_invoices"`
	PaidInvoices    int             `json:"paid_invoices"`
	UnpaidInvoices  int             `json:"unpaid_invoices"`
	OverdueInvoices int             `json:"overdue_invoices"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	UnpaidAmount    decimal.Decimal `json:"unpaid_amount"`

	RevenueByCustomer []CustomerRevenue `json:"revenue_by_customer"`
	MonthlyRevenue    []MonthlyRevenue  `json:"monthly_revenue"`
}

// RecentInvoice is the minimal projection of an invoice for dashboard lists
type RecentInvoice struct {
	ID            string              `json:"id"`
	InvoiceNumber string              `json:"invoice_number"`
	CustomerName  string              `json:"customer_name,omitempty"`
	IssueDate     time.Time           `json:"issue_date"`
	DueDate       time.Time           `json:"due_date"`
	InvoiceStatus types.InvoiceStatus `json:"invoice_status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
}

// DashboardSummaryResponse summarizes a user's invoices without period
// filtering, for the dashboard view
type DashboardSummaryResponse struct {
	TotalInvoices   int             `json:"total_invoices"`
	UnpaidInvoices  int             `json:"unpaid_invoices"`
	OverdueInvoices int             `json:"overdue_invoices"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	RecentInvoices  []RecentInvoice `json:"recent_invoices"`
}
