package repository

import (
	"context"
	"errors"

	"github.com/openbill/openbill/internal/domain/customer"
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/logger"
	"github.com/openbill/openbill/internal/postgres"
	"gorm.io/gorm"
)

type customerRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewCustomerRepository creates a gorm backed customer repository
func NewCustomerRepository(db postgres.IClient, logger *logger.Logger) customer.Repository {
	return &customerRepository{db: db, logger: logger}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	if err := r.db.DB(ctx).Create(customerFromDomain(c)).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create customer").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	var row customerRow
	err := r.db.DB(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	if err := r.db.DB(ctx).Save(customerFromDomain(c)).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update customer").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	result := r.db.DB(ctx).Delete(&customerRow{}, "id = ?", id)
	if result.Error != nil {
		return ierr.WithError(result.Error).
			WithHint("Failed to delete customer").
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		return customer.ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepository) ListByUserID(ctx context.Context, userID string) ([]*customer.Customer, error) {
	var rows []customerRow
	err := r.db.DB(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list customers").
			Mark(ierr.ErrDatabase)
	}

	customers := make([]*customer.Customer, len(rows))
	for i := range rows {
		customers[i] = rows[i].toDomain()
	}
	return customers, nil
}
