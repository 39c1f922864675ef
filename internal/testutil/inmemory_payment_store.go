package testutil

import (
	"context"

	"github.com/openbill/openbill/internal/domain/payment"
	"github.com/openbill/openbill/internal/types"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

// NewInMemoryPaymentStore creates a new in-memory payment repository
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return payment.ErrPaymentNotFound
	}
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, payment.ErrPaymentNotFound
	}
	return p, nil
}

func (s *InMemoryPaymentStore) Update(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return payment.ErrPaymentNotFound
	}
	if err := s.InMemoryStore.Update(ctx, p.ID, p); err != nil {
		return payment.ErrPaymentNotFound
	}
	return nil
}

func (s *InMemoryPaymentStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return payment.ErrPaymentNotFound
	}
	return nil
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	return s.InMemoryStore.List(ctx, filter, paymentFilterFn, paymentSortFn)
}

func (s *InMemoryPaymentStore) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, paymentFilterFn)
}

func (s *InMemoryPaymentStore) ListByInvoiceID(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *payment.Payment, _ interface{}) bool {
		return p.InvoiceID == invoiceID
	}, paymentSortFn)
}

func paymentFilterFn(_ context.Context, p *payment.Payment, filter interface{}) bool {
	f, ok := filter.(*types.PaymentFilter)
	if !ok || f == nil {
		return true
	}
	if f.InvoiceID != "" && p.InvoiceID != f.InvoiceID {
		return false
	}
	return true
}

func paymentSortFn(a, b *payment.Payment) bool {
	if !a.PaymentDate.Equal(b.PaymentDate) {
		return a.PaymentDate.After(b.PaymentDate)
	}
	return a.ID > b.ID
}
