package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceStatusValidate(t *testing.T) {
	assert.NoError(t, InvoiceStatusDraft.Validate())
	assert.NoError(t, InvoiceStatusSent.Validate())
	assert.NoError(t, InvoiceStatusPaid.Validate())
	assert.NoError(t, InvoiceStatusOverdue.Validate())
	assert.Error(t, InvoiceStatus("CANCELLED").Validate())
	assert.Error(t, InvoiceStatus("").Validate())
}

func TestInvoiceStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{InvoiceStatusDraft, InvoiceStatusSent, true},
		{InvoiceStatusDraft, InvoiceStatusOverdue, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusSent, InvoiceStatusOverdue, true},
		{InvoiceStatusSent, InvoiceStatusPaid, false},
		{InvoiceStatusSent, InvoiceStatusDraft, false},
		{InvoiceStatusOverdue, InvoiceStatusSent, true},
		{InvoiceStatusOverdue, InvoiceStatusPaid, false},
		{InvoiceStatusPaid, InvoiceStatusSent, false},
		{InvoiceStatusPaid, InvoiceStatusDraft, false},
		// Same-status writes are always legal
		{InvoiceStatusPaid, InvoiceStatusPaid, true},
		{InvoiceStatusDraft, InvoiceStatusDraft, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}
