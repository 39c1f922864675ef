package testutil

import (
	"context"

	"github.com/openbill/openbill/internal/domain/customer"
)

// InMemoryCustomerStore implements customer.Repository
type InMemoryCustomerStore struct {
	*InMemoryStore[*customer.Customer]
}

// NewInMemoryCustomerStore creates a new in-memory customer repository
func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		InMemoryStore: NewInMemoryStore[*customer.Customer](),
	}
}

func (s *InMemoryCustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	if c == nil {
		return customer.ErrCustomerNotFound
	}
	return s.InMemoryStore.Create(ctx, c.ID, c)
}

func (s *InMemoryCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, customer.ErrCustomerNotFound
	}
	return c, nil
}

func (s *InMemoryCustomerStore) Update(ctx context.Context, c *customer.Customer) error {
	if c == nil {
		return customer.ErrCustomerNotFound
	}
	if err := s.InMemoryStore.Update(ctx, c.ID, c); err != nil {
		return customer.ErrCustomerNotFound
	}
	return nil
}

func (s *InMemoryCustomerStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return customer.ErrCustomerNotFound
	}
	return nil
}

func (s *InMemoryCustomerStore) ListByUserID(ctx context.Context, userID string) ([]*customer.Customer, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, c *customer.Customer, _ interface{}) bool {
		return c.UserID == userID
	}, func(a, b *customer.Customer) bool {
		return a.Name < b.Name
	})
}
