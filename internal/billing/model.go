package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	StatusUnpaid        InvoiceStatus = "unpaid"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusPaid          InvoiceStatus = "paid"
	StatusOverdue       InvoiceStatus = "overdue"
	StatusCancelled     InvoiceStatus = "cancelled"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodOnline       PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodOnline:
		return true
	}
	return false
}

type Invoice struct {
	ID             int             `db:"id" json:"id"`
	GymID          int             `db:"gym_id" json:"gym_id"`
	MemberID       int             `db:"member_id" json:"member_id"`
	SubscriptionID int             `db:"subscription_id" json:"subscription_id"`
	SequenceNo     int             `db:"sequence_no" json:"-"`
	InvoiceNumber  string          `db:"invoice_number" json:"invoice_number"`
	Amount         decimal.Decimal `db:"amount" json:"amount"`
	Discount       decimal.Decimal `db:"discount" json:"discount"`
	NetAmount      decimal.Decimal `db:"net_amount" json:"net_amount"`
	PaidTotal      decimal.Decimal `db:"paid_total" json:"paid_total"`
	Status         InvoiceStatus   `db:"status" json:"status"`
	DueDate        time.Time       `db:"due_date" json:"due_date"`
	PaidAt         *time.Time      `db:"paid_at" json:"paid_at,omitempty"`
	PaymentMethod  *PaymentMethod  `db:"payment_method" json:"payment_method,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// DisplayStatus derives the overdue state lazily. An unpaid invoice past its
// due date with no payment activity reads as overdue; a partially paid one
// keeps its partially_paid status even past due.
func (i *Invoice) DisplayStatus(now time.Time) InvoiceStatus {
	if i.Status == StatusUnpaid && i.PaidTotal.IsZero() && now.After(i.DueDate) {
		return StatusOverdue
	}
	return i.Status
}

// Payment is an immutable record of money received against an invoice. The
// only mutation allowed is deletion, which reverses its ledger posting.
type Payment struct {
	ID              int             `db:"id" json:"id"`
	InvoiceID       int             `db:"invoice_id" json:"invoice_id"`
	AccountID       int             `db:"account_id" json:"account_id"`
	LedgerEntryID   int64           `db:"ledger_entry_id" json:"ledger_entry_id"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod   PaymentMethod   `db:"payment_method" json:"payment_method"`
	ReferenceNumber *string         `db:"reference_number" json:"reference_number,omitempty"`
	PaidAt          time.Time       `db:"paid_at" json:"paid_at"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

type CreateInvoiceRequest struct {
	MemberID       int             `json:"member_id" binding:"required"`
	SubscriptionID int             `json:"subscription_id"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Discount       decimal.Decimal `json:"discount"`
	DueInDays      int             `json:"due_in_days"`
}

type RecordPaymentRequest struct {
	AccountID       int             `json:"account_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod   PaymentMethod   `json:"payment_method" binding:"required"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	ReceiptEmail    string          `json:"receipt_email,omitempty" validate:"omitempty,email"`
}

type InvoiceFilter struct {
	MemberID *int
	Status   *InvoiceStatus
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}
