package service

import (
	"github.com/openbill/openbill/internal/clock"
	"github.com/openbill/openbill/internal/config"
	"github.com/openbill/openbill/internal/domain/customer"
	"github.com/openbill/openbill/internal/domain/invoice"
	"github.com/openbill/openbill/internal/domain/payment"
	"github.com/openbill/openbill/internal/logger"
	"github.com/openbill/openbill/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Clock  clock.Clock

	// Repositories
	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository
	CustomerRepo customer.Repository
}

// NewServiceParams creates the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	clk clock.Clock,
	invoiceRepo invoice.Repository,
	paymentRepo payment.Repository,
	customerRepo customer.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		DB:           db,
		Clock:        clk,
		InvoiceRepo:  invoiceRepo,
		PaymentRepo:  paymentRepo,
		CustomerRepo: customerRepo,
	}
}
