package repository

import (
	"context"
	"errors"

	"github.com/openbill/openbill/internal/domain/payment"
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/logger"
	"github.com/openbill/openbill/internal/postgres"
	"github.com/openbill/openbill/internal/types"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewPaymentRepository creates a gorm backed payment repository
func NewPaymentRepository(db postgres.IClient, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if err := r.db.DB(ctx).Create(paymentFromDomain(p)).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var row paymentRow
	err := r.db.DB(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	if err := r.db.DB(ctx).Save(paymentFromDomain(p)).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.DB(ctx).Delete(&paymentRow{}, "id = ?", id)
	if result.Error != nil {
		return ierr.WithError(result.Error).
			WithHint("Failed to delete payment").
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		return payment.ErrPaymentNotFound
	}
	return nil
}

func (r *paymentRepository) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	query := r.db.DB(ctx).Model(&paymentRow{})
	if filter != nil && filter.InvoiceID != "" {
		query = query.Where("invoice_id = ?", filter.InvoiceID)
	}
	if filter != nil && !filter.IsUnlimited() {
		query = query.Limit(filter.GetLimit()).Offset(filter.GetOffset())
	}

	var rows []paymentRow
	if err := query.Order("payment_date DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}

	payments := make([]*payment.Payment, len(rows))
	for i := range rows {
		payments[i] = rows[i].toDomain()
	}
	return payments, nil
}

func (r *paymentRepository) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	query := r.db.DB(ctx).Model(&paymentRow{})
	if filter != nil && filter.InvoiceID != "" {
		query = query.Where("invoice_id = ?", filter.InvoiceID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count payments").
			Mark(ierr.ErrDatabase)
	}
	return int(count), nil
}

func (r *paymentRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	var rows []paymentRow
	err := r.db.DB(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments for invoice").
			Mark(ierr.ErrDatabase)
	}

	payments := make([]*payment.Payment, len(rows))
	for i := range rows {
		payments[i] = rows[i].toDomain()
	}
	return payments, nil
}
