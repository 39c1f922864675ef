package postgres

import (
	"context"

	"github.com/openbill/openbill/internal/config"
	ierr "github.com/openbill/openbill/internal/errors"
	"github.com/openbill/openbill/internal/logger"
	"github.com/openbill/openbill/internal/types"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// IClient defines the interface for database operations
type IClient interface {
	// WithTx wraps the given function in a transaction. Nested calls reuse
	// the transaction already stored in the context, so a multi row write
	// (item mutation + invoice total, payment insert + status update)
	// commits or rolls back as one unit.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// DB returns the transaction bound handle from the context when inside
	// WithTx, otherwise the base connection.
	DB(ctx context.Context) *gorm.DB
}

// Client implements IClient over a gorm connection
type Client struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewClient opens a postgres connection using the configured DSN
func NewClient(cfg *config.Configuration, logger *logger.Logger) (IClient, error) {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to postgres").
			Mark(ierr.ErrDatabase)
	}

	return &Client{db: db, logger: logger}, nil
}

// NewClientWithDB wraps an existing gorm handle, used by tests and scripts
func NewClientWithDB(db *gorm.DB, logger *logger.Logger) IClient {
	return &Client{db: db, logger: logger}
}

func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(types.CtxDBTransaction).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, types.CtxDBTransaction, tx)
		return fn(txCtx)
	})
}

func (c *Client) DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(types.CtxDBTransaction).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return c.db.WithContext(ctx)
}
