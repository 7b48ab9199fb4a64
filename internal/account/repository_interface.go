package account

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateAccount(ctx context.Context, gymID int, req CreateAccountRequest) (*Account, error)
	GetAccountByID(ctx context.Context, id int) (*Account, error)
	GetAccountsByGym(ctx context.Context, gymID int) ([]Account, error)
	SetAccountActive(ctx context.Context, id int, active bool) error
	SetDefaultAccount(ctx context.Context, gymID, id int) error

	// Post appends a ledger entry in its own transaction.
	Post(ctx context.Context, accountID int, refType ReferenceType, refID int, debit, credit decimal.Decimal, date time.Time) (*LedgerEntry, error)
	// PostTx appends a ledger entry inside the caller's transaction so the
	// caller's own state change commits or rolls back with the posting.
	PostTx(ctx context.Context, tx *sqlx.Tx, accountID int, refType ReferenceType, refID int, debit, credit decimal.Decimal, date time.Time) (*LedgerEntry, error)

	Reverse(ctx context.Context, entryID int64) (*LedgerEntry, error)
	ReverseTx(ctx context.Context, tx *sqlx.Tx, entryID int64) (*LedgerEntry, error)

	Ledger(ctx context.Context, accountID int, filter LedgerFilter) ([]LedgerEntry, error)
	RecomputedBalance(ctx context.Context, accountID int) (decimal.Decimal, error)

	BeginTx(ctx context.Context) (*sqlx.Tx, error)
}
