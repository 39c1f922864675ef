package testutil

import (
	"context"

	"github.com/openbill/openbill/internal/logger"
	"github.com/openbill/openbill/internal/postgres"
	"github.com/openbill/openbill/internal/types"
	"gorm.io/gorm"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

// MockPostgresClient is a mock implementation of postgres client for testing.
// The in-memory repositories do their own locking, so WithTx only needs to
// preserve the nesting semantics of the real client.
type MockPostgresClient struct {
	logger *logger.Logger
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) postgres.IClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx executes the given function within a transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	// If we're already in a transaction, reuse it
	if tx := c.txFromContext(ctx); tx != nil {
		return fn(ctx)
	}

	// For testing, we just execute the function without a real transaction
	return fn(ctx)
}

func (c *MockPostgresClient) txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(types.CtxDBTransaction).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// DB returns the transaction bound handle if present
func (c *MockPostgresClient) DB(ctx context.Context) *gorm.DB {
	return c.txFromContext(ctx)
}
