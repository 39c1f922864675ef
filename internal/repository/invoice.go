package repository

import (
	"context"
	"errors"

	"github.com/openbill/openbill/internal/domain/invoice"
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/logger"
	"github.com/openbill/openbill/internal/postgres"
	"github.com/openbill/openbill/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewInvoiceRepository creates a gorm backed invoice repository
func NewInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	row := invoiceFromDomain(inv)
	if err := r.db.DB(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return invoice.ErrDuplicateInvoiceNumber
		}
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	var row invoiceRow
	err := r.db.DB(ctx).Preload("LineItems").First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

// GetForUpdate locks the invoice row for the duration of the surrounding
// transaction so concurrent reconciliations serialize on it.
func (r *invoiceRepository) GetForUpdate(ctx context.Context, id string) (*invoice.Invoice, error) {
	var row invoiceRow
	err := r.db.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("LineItems").
		First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to lock invoice").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	row := invoiceFromDomain(inv)

	err := r.db.DB(ctx).Transaction(func(tx *gorm.DB) error {
		// Rewrite line items so removals are reflected
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&lineItemRow{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(row).Error
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	result := r.db.DB(ctx).Delete(&invoiceRow{}, "id = ?", id)
	if result.Error != nil {
		return ierr.WithError(result.Error).
			WithHint("Failed to delete invoice").
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		return invoice.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	query := r.applyFilter(ctx, filter).Preload("LineItems")

	if filter != nil && !filter.IsUnlimited() {
		query = query.Limit(filter.GetLimit()).Offset(filter.GetOffset())
	}

	order := "issue_date DESC, created_at DESC, id DESC"
	if filter != nil && filter.QueryFilter != nil && filter.GetOrder() == types.OrderAsc {
		order = "issue_date ASC, created_at ASC, id ASC"
	}

	var rows []invoiceRow
	if err := query.Order(order).Find(&rows).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}

	invoices := make([]*invoice.Invoice, len(rows))
	for i := range rows {
		invoices[i] = rows[i].toDomain()
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	var count int64
	if err := r.applyFilter(ctx, filter).Model(&invoiceRow{}).Count(&count).Error; err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return int(count), nil
}

func (r *invoiceRepository) GetByInvoiceNumber(ctx context.Context, userID, invoiceNumber string) (*invoice.Invoice, error) {
	var row invoiceRow
	err := r.db.DB(ctx).Preload("LineItems").
		First(&row, "user_id = ? AND invoice_number = ?", userID, invoiceNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice by number").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *invoiceRepository) GetByShareToken(ctx context.Context, token string) (*invoice.Invoice, error) {
	var row invoiceRow
	err := r.db.DB(ctx).Preload("LineItems").First(&row, "share_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice by share token").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *invoiceRepository) applyFilter(ctx context.Context, filter *types.InvoiceFilter) *gorm.DB {
	query := r.db.DB(ctx).Model(&invoiceRow{})
	if filter == nil {
		return query
	}

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if len(filter.InvoiceIDs) > 0 {
		query = query.Where("id IN ?", filter.InvoiceIDs)
	}
	if len(filter.InvoiceStatus) > 0 {
		query = query.Where("invoice_status IN ?", filter.InvoiceStatus)
	}
	if filter.IssuedAfter != nil {
		query = query.Where("issue_date >= ?", *filter.IssuedAfter)
	}
	if filter.IssuedBefore != nil {
		query = query.Where("issue_date <= ?", *filter.IssuedBefore)
	}
	return query
}
