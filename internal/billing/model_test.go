package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDisplayStatus(t *testing.T) {
	now := time.Now()
	pastDue := now.Add(-24 * time.Hour)
	futureDue := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		inv  Invoice
		want InvoiceStatus
	}{
		{
			name: "unpaid past due reads overdue",
			inv:  Invoice{Status: StatusUnpaid, DueDate: pastDue},
			want: StatusOverdue,
		},
		{
			name: "unpaid before due stays unpaid",
			inv:  Invoice{Status: StatusUnpaid, DueDate: futureDue},
			want: StatusUnpaid,
		},
		{
			name: "partially paid past due stays partially paid",
			inv:  Invoice{Status: StatusPartiallyPaid, PaidTotal: decimal.NewFromInt(20), DueDate: pastDue},
			want: StatusPartiallyPaid,
		},
		{
			name: "paid past due stays paid",
			inv:  Invoice{Status: StatusPaid, PaidTotal: decimal.NewFromInt(50), DueDate: pastDue},
			want: StatusPaid,
		},
		{
			name: "cancelled past due stays cancelled",
			inv:  Invoice{Status: StatusCancelled, DueDate: pastDue},
			want: StatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inv.DisplayStatus(now))
		})
	}
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, MethodCash.Valid())
	assert.True(t, MethodBankTransfer.Valid())
	assert.False(t, PaymentMethod("cheque").Valid())
	assert.False(t, PaymentMethod("").Valid())
}
