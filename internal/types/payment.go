package types

// PaymentFilter represents the filter options for listing payments
type PaymentFilter struct {
	*QueryFilter

	// invoice_id filters payments recorded against a specific invoice
	InvoiceID string `json:"invoice_id,omitempty" form:"invoice_id"`
}

// NewPaymentFilter creates a new payment filter with default pagination
func NewPaymentFilter() *PaymentFilter {
	return &PaymentFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitPaymentFilter creates a new payment filter without pagination
func NewNoLimitPaymentFilter() *PaymentFilter {
	return &PaymentFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *PaymentFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetLimit implements BaseFilter interface
func (f *PaymentFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *PaymentFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// IsUnlimited implements BaseFilter interface
func (f *PaymentFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
