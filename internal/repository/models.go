package repository

import (
	"time"

	"github.com/openbill/openbill/internal/domain/customer"
	"github.com/openbill/openbill/internal/domain/invoice"
	"github.com/openbill/openbill/internal/domain/payment"
	"github.com/openbill/openbill/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Row types decouple the persisted shape from the domain models, mirroring
// the table layout. Conversion always goes through toDomain/fromDomain so a
// schema change cannot silently leak into the services.

type invoiceRow struct {
	ID            string          `gorm:"primaryKey"`
	UserID        string          `gorm:"not null;index;uniqueIndex:idx_invoices_user_number,priority:1"`
	CustomerID    *string         `gorm:"index"`
	InvoiceNumber string          `gorm:"not null;uniqueIndex:idx_invoices_user_number,priority:2"`
	IssueDate     time.Time       `gorm:"not null;index"`
	DueDate       time.Time       `gorm:"not null"`
	InvoiceStatus string          `gorm:"not null;default:'DRAFT'"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Notes         string
	ShareToken    *string `gorm:"uniqueIndex"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
	UpdatedBy     string

	LineItems []lineItemRow `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

func (invoiceRow) TableName() string { return "invoices" }

type lineItemRow struct {
	ID          string `gorm:"primaryKey"`
	InvoiceID   string `gorm:"not null;index"`
	Description string `gorm:"not null"`
	Quantity    int64  `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
	UpdatedBy   string
}

func (lineItemRow) TableName() string { return "invoice_items" }

type paymentRow struct {
	ID            string          `gorm:"primaryKey"`
	InvoiceID     string          `gorm:"not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	PaymentDate   time.Time       `gorm:"not null"`
	PaymentMethod string          `gorm:"not null"`
	Reference     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
	UpdatedBy     string
}

func (paymentRow) TableName() string { return "payments" }

type customerRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	TaxID     string
	Address   string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string
}

func (customerRow) TableName() string { return "customers" }

// Migrate creates or updates the tables for all row types
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&invoiceRow{},
		&lineItemRow{},
		&paymentRow{},
		&customerRow{},
	)
}

func (r *invoiceRow) toDomain() *invoice.Invoice {
	items := make([]*invoice.LineItem, len(r.LineItems))
	for i := range r.LineItems {
		items[i] = r.LineItems[i].toDomain()
	}

	return &invoice.Invoice{
		ID:            r.ID,
		UserID:        r.UserID,
		CustomerID:    r.CustomerID,
		InvoiceNumber: r.InvoiceNumber,
		IssueDate:     r.IssueDate,
		DueDate:       r.DueDate,
		InvoiceStatus: types.InvoiceStatus(r.InvoiceStatus),
		TotalAmount:   r.TotalAmount,
		Notes:         r.Notes,
		ShareToken:    r.ShareToken,
		LineItems:     items,
		BaseModel: types.BaseModel{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

func invoiceFromDomain(inv *invoice.Invoice) *invoiceRow {
	items := make([]lineItemRow, len(inv.LineItems))
	for i, item := range inv.LineItems {
		items[i] = *lineItemFromDomain(item)
	}

	return &invoiceRow{
		ID:            inv.ID,
		UserID:        inv.UserID,
		CustomerID:    inv.CustomerID,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		InvoiceStatus: string(inv.InvoiceStatus),
		TotalAmount:   inv.TotalAmount,
		Notes:         inv.Notes,
		ShareToken:    inv.ShareToken,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		CreatedBy:     inv.CreatedBy,
		UpdatedBy:     inv.UpdatedBy,
		LineItems:     items,
	}
}

func (r *lineItemRow) toDomain() *invoice.LineItem {
	return &invoice.LineItem{
		ID:          r.ID,
		InvoiceID:   r.InvoiceID,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		TotalPrice:  r.TotalPrice,
		BaseModel: types.BaseModel{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

func lineItemFromDomain(item *invoice.LineItem) *lineItemRow {
	return &lineItemRow{
		ID:          item.ID,
		InvoiceID:   item.InvoiceID,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		TotalPrice:  item.TotalPrice,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
		CreatedBy:   item.CreatedBy,
		UpdatedBy:   item.UpdatedBy,
	}
}

func (r *paymentRow) toDomain() *payment.Payment {
	return &payment.Payment{
		ID:            r.ID,
		InvoiceID:     r.InvoiceID,
		Amount:        r.Amount,
		PaymentDate:   r.PaymentDate,
		PaymentMethod: r.PaymentMethod,
		Reference:     r.Reference,
		BaseModel: types.BaseModel{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

func paymentFromDomain(p *payment.Payment) *paymentRow {
	return &paymentRow{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CreatedBy:     p.CreatedBy,
		UpdatedBy:     p.UpdatedBy,
	}
}

func (r *customerRow) toDomain() *customer.Customer {
	return &customer.Customer{
		ID:      r.ID,
		UserID:  r.UserID,
		Name:    r.Name,
		TaxID:   r.TaxID,
		Address: r.Address,
		Email:   r.Email,
		Phone:   r.Phone,
		BaseModel: types.BaseModel{
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

func customerFromDomain(c *customer.Customer) *customerRow {
	return &customerRow{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   c.Address,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		CreatedBy: c.CreatedBy,
		UpdatedBy: c.UpdatedBy,
	}
}
