package main

import (
	"context"
	"time"

	"github.com/openbill/openbill/internal/clock"
	"github.com/openbill/openbill/internal/config"
	"github.com/openbill/openbill/internal/logger"
	"github.com/openbill/openbill/internal/postgres"
	"github.com/openbill/openbill/internal/repository"
	"github.com/openbill/openbill/internal/service"
	"github.com/openbill/openbill/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Clock
			clock.New,

			// Postgres
			postgres.NewClient,

			// Repositories
			repository.NewInvoiceRepository,
			repository.NewPaymentRepository,
			repository.NewCustomerRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewCustomerService,
			service.NewInvoiceService,
			service.NewPaymentService,
			service.NewReportService,
		),
	)

	opts = append(opts, fx.Invoke(migrate, logStartup))

	app := fx.New(opts...)
	app.Run()
}

func migrate(lc fx.Lifecycle, db postgres.IClient, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("running schema migration")
			return repository.Migrate(db.DB(ctx))
		},
	})
}

func logStartup(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	_ service.InvoiceService,
	_ service.PaymentService,
	_ service.ReportService,
	_ service.CustomerService,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("application started",
				"mode", cfg.Deployment.Mode)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("application stopped")
			return nil
		},
	})
}
