package testutil

import (
	"context"
	"time"

	"github.com/openbill/openbill/internal/clock"
	"github.com/openbill/openbill/internal/config"
	"github.com/openbill/openbill/internal/domain/customer"
	"github.com/openbill/openbill/internal/domain/invoice"
	"github.com/openbill/openbill/internal/domain/payment"
	"github.com/openbill/openbill/internal/logger"
	"github.com/openbill/openbill/internal/postgres"
	"github.com/openbill/openbill/internal/types"
	"github.com/openbill/openbill/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	InvoiceRepo  invoice.Repository
	PaymentRepo  payment.Repository
	CustomerRepo customer.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     postgres.IClient
	logger *logger.Logger
	config *config.Configuration
	clock  *clock.FixedClock
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	// Initialize validator
	validator.NewValidator()

	// Initialize logger with test config
	cfg := &config.Configuration{
		Logging: config.LoggingConfig{
			Level: types.LogLevelInfo,
		},
	}
	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.stores = Stores{
		InvoiceRepo:  NewInMemoryInvoiceStore(),
		PaymentRepo:  NewInMemoryPaymentStore(),
		CustomerRepo: NewInMemoryCustomerStore(),
	}
	s.db = NewMockPostgresClient(s.logger)
	s.now = time.Now().UTC()
	s.clock = clock.NewFixedClock(s.now)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.PaymentRepo.(*InMemoryPaymentStore).Clear()
	s.stores.CustomerRepo.(*InMemoryCustomerStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the mock database client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetClock returns the fixed test clock
func (s *BaseServiceTestSuite) GetClock() *clock.FixedClock {
	return s.clock
}

// GetNow returns the instant the fixed clock was seeded with
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
