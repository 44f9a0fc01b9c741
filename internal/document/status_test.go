package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionInvoice(t *testing.T) {
	tests := []struct {
		from InvoiceStatus
		to   InvoiceStatus
		want bool
	}{
		{InvoiceDraft, InvoiceUnpaid, true},
		{InvoiceUnpaid, InvoicePaid, true},
		{InvoiceUnpaid, InvoiceOverdue, true},
		{InvoiceOverdue, InvoicePaid, true},
		{InvoiceDraft, InvoicePaid, false},
		{InvoicePaid, InvoiceUnpaid, false},
		{InvoicePaid, InvoiceOverdue, false},
		{InvoiceOverdue, InvoiceUnpaid, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransitionInvoice(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestCanTransitionQuote(t *testing.T) {
	tests := []struct {
		from QuoteStatus
		to   QuoteStatus
		want bool
	}{
		{QuoteDraft, QuoteSent, true},
		{QuoteSent, QuoteAccepted, true},
		{QuoteSent, QuoteRejected, true},
		{QuoteSent, QuoteExpired, true},
		{QuoteDraft, QuoteAccepted, false},
		{QuoteAccepted, QuoteSent, false},
		{QuoteRejected, QuoteExpired, false},
		{QuoteExpired, QuoteSent, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransitionQuote(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestIsOutstanding(t *testing.T) {
	assert.True(t, IsOutstanding(InvoiceUnpaid))
	assert.True(t, IsOutstanding(InvoiceOverdue))
	assert.False(t, IsOutstanding(InvoiceDraft))
	assert.False(t, IsOutstanding(InvoicePaid))
}
