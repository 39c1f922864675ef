package customer

import (
	"context"
)

// Repository defines the interface for customer persistence
type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	Get(ctx context.Context, id string) (*Customer, error)
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id string) error

	// ListByUserID retrieves all customers owned by a user
	ListByUserID(ctx context.Context, userID string) ([]*Customer, error)
}
