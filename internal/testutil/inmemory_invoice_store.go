package testutil

import (
	"context"

	"github.com/openbill/openbill/internal/domain/invoice"
	"github.com/openbill/openbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

// NewInMemoryInvoiceStore creates a new in-memory invoice repository
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return invoice.ErrInvoiceNotFound
	}

	// Enforce the user scoped invoice number uniqueness the real schema
	// guarantees with a unique index
	existing, err := s.GetByInvoiceNumber(ctx, inv.UserID, inv.InvoiceNumber)
	if err == nil && existing != nil {
		return invoice.ErrDuplicateInvoiceNumber
	}

	return s.InMemoryStore.Create(ctx, inv.ID, inv)
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, invoice.ErrInvoiceNotFound
	}
	return inv, nil
}

// GetForUpdate behaves like Get; the store's own mutex stands in for the
// row lock taken by the real repository
func (s *InMemoryInvoiceStore) GetForUpdate(ctx context.Context, id string) (*invoice.Invoice, error) {
	return s.Get(ctx, id)
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return invoice.ErrInvoiceNotFound
	}
	if err := s.InMemoryStore.Update(ctx, inv.ID, inv); err != nil {
		return invoice.ErrInvoiceNotFound
	}
	return nil
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return invoice.ErrInvoiceNotFound
	}
	return nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	return s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func (s *InMemoryInvoiceStore) GetByInvoiceNumber(ctx context.Context, userID, invoiceNumber string) (*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.UserID == userID && inv.InvoiceNumber == invoiceNumber
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, invoice.ErrInvoiceNotFound
	}
	return invoices[0], nil
}

func (s *InMemoryInvoiceStore) GetByShareToken(ctx context.Context, token string) (*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.ShareToken != nil && *inv.ShareToken == token
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, invoice.ErrInvoiceNotFound
	}
	return invoices[0], nil
}

func invoiceFilterFn(_ context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*types.InvoiceFilter)
	if !ok || f == nil {
		return true
	}

	if len(f.InvoiceIDs) > 0 && !lo.Contains(f.InvoiceIDs, inv.ID) {
		return false
	}
	if f.UserID != "" && inv.UserID != f.UserID {
		return false
	}
	if f.CustomerID != "" && (inv.CustomerID == nil || *inv.CustomerID != f.CustomerID) {
		return false
	}
	if len(f.InvoiceStatus) > 0 && !lo.Contains(f.InvoiceStatus, inv.InvoiceStatus) {
		return false
	}
	if f.IssuedAfter != nil && inv.IssueDate.Before(*f.IssuedAfter) {
		return false
	}
	if f.IssuedBefore != nil && inv.IssueDate.After(*f.IssuedBefore) {
		return false
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && inv.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && inv.CreatedAt.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func invoiceSortFn(a, b *invoice.Invoice) bool {
	if !a.IssueDate.Equal(b.IssueDate) {
		return a.IssueDate.After(b.IssueDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
