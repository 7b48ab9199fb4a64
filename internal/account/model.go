package account

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	TypeBank AccountType = "bank"
	TypeCash AccountType = "cash"
)

func (t AccountType) Valid() bool {
	switch t {
	case TypeBank, TypeCash:
		return true
	}
	return false
}

// ReferenceType says which business record a ledger entry points back at.
type ReferenceType string

const (
	ReferenceFee           ReferenceType = "fee"
	ReferenceExpense       ReferenceType = "expense"
	ReferenceAdjustment    ReferenceType = "adjustment"
	ReferenceSalaryPayment ReferenceType = "salary_payment"
)

func (t ReferenceType) Valid() bool {
	switch t {
	case ReferenceFee, ReferenceExpense, ReferenceAdjustment, ReferenceSalaryPayment:
		return true
	}
	return false
}

type Account struct {
	ID             int             `db:"id" json:"id"`
	GymID          int             `db:"gym_id" json:"gym_id"`
	AccountType    AccountType     `db:"account_type" json:"account_type"`
	AccountName    string          `db:"account_name" json:"account_name"`
	OpeningBalance decimal.Decimal `db:"opening_balance" json:"opening_balance"`
	// CurrentBalance mirrors the balance of the latest ledger entry. It is
	// only ever written inside the same transaction as a posting.
	CurrentBalance decimal.Decimal `db:"current_balance" json:"current_balance"`
	IsDefault      bool            `db:"is_default" json:"is_default"`
	IsActive       bool            `db:"is_active" json:"is_active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// LedgerEntry is append-only. Exactly one of Debit/Credit is non-zero and
// Balance carries the running account balance after this entry.
type LedgerEntry struct {
	ID              int64           `db:"id" json:"id"`
	AccountID       int             `db:"account_id" json:"account_id"`
	TransactionDate time.Time       `db:"transaction_date" json:"transaction_date"`
	ReferenceType   ReferenceType   `db:"reference_type" json:"reference_type"`
	ReferenceID     int             `db:"reference_id" json:"reference_id"`
	Debit           decimal.Decimal `db:"debit" json:"debit"`
	Credit          decimal.Decimal `db:"credit" json:"credit"`
	Balance         decimal.Decimal `db:"balance" json:"balance"`
	IsReversal      bool            `db:"is_reversal" json:"is_reversal"`
	ReversedEntryID *int64          `db:"reversed_entry_id" json:"reversed_entry_id,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

type CreateAccountRequest struct {
	AccountType    AccountType     `json:"account_type" binding:"required"`
	AccountName    string          `json:"account_name" binding:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	IsDefault      bool            `json:"is_default"`
}

type PostEntryRequest struct {
	ReferenceType ReferenceType   `json:"reference_type" binding:"required"`
	ReferenceID   int             `json:"reference_id"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Date          time.Time       `json:"date"`
}

type LedgerFilter struct {
	From          *time.Time
	To            *time.Time
	ReferenceType *ReferenceType
	Limit         int
	Offset        int
}

// BalanceCheck reports the cached balance against a full recomputation from
// the ledger, for auditing the cache invariant.
type BalanceCheck struct {
	AccountID  int             `json:"account_id"`
	Cached     decimal.Decimal `json:"cached"`
	Recomputed decimal.Decimal `json:"recomputed"`
	Consistent bool            `json:"consistent"`
}
