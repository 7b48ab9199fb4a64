package billing

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// CreateInvoiceTx inserts an invoice inside the caller's transaction.
	// The subscription lifecycle uses it so a subscription and its invoice
	// are created as one atomic unit.
	CreateInvoiceTx(ctx context.Context, tx *sqlx.Tx, gymID, memberID, subscriptionID int, amount, discount decimal.Decimal, dueInDays int) (*Invoice, error)
	CreateInvoice(ctx context.Context, gymID, memberID, subscriptionID int, amount, discount decimal.Decimal, dueInDays int) (*Invoice, error)

	GetInvoiceByID(ctx context.Context, id int) (*Invoice, error)
	GetPayments(ctx context.Context, invoiceID int) ([]Payment, error)
	ListInvoices(ctx context.Context, gymID int, filter InvoiceFilter) ([]Invoice, error)

	RecordPayment(ctx context.Context, invoiceID, accountID int, amount decimal.Decimal, method PaymentMethod, referenceNumber *string, paidAt time.Time) (*Payment, error)
	DeletePayment(ctx context.Context, paymentID int) (*Payment, error)
	CancelInvoice(ctx context.Context, invoiceID int) (*Invoice, error)

	BeginTx(ctx context.Context) (*sqlx.Tx, error)
}
