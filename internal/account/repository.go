package account

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"gymdesk/internal/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

func (r *repository) CreateAccount(ctx context.Context, gymID int, req CreateAccountRequest) (*Account, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// At most one default per gym; a new default displaces the old one.
	if req.IsDefault {
		if _, err := tx.ExecContext(ctx, `
			UPDATE accounts SET is_default = FALSE, updated_at = NOW() WHERE gym_id = $1 AND is_default
		`, gymID); err != nil {
			return nil, err
		}
	}

	a := &Account{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO accounts (gym_id, account_type, account_name, opening_balance, current_balance, is_default, is_active)
		VALUES ($1, $2, $3, $4, $4, $5, TRUE)
		RETURNING id, gym_id, account_type, account_name, opening_balance, current_balance, is_default, is_active, created_at, updated_at
	`, gymID, req.AccountType, req.AccountName, req.OpeningBalance, req.IsDefault).StructScan(a)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repository) GetAccountByID(ctx context.Context, id int) (*Account, error) {
	a := &Account{}
	err := r.db.GetContext(ctx, a, `SELECT * FROM accounts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repository) GetAccountsByGym(ctx context.Context, gymID int) ([]Account, error) {
	accounts := []Account{}
	err := r.db.SelectContext(ctx, &accounts, `SELECT * FROM accounts WHERE gym_id = $1 ORDER BY id`, gymID)
	return accounts, err
}

func (r *repository) SetAccountActive(ctx context.Context, id int, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET is_active = $1, updated_at = NOW() WHERE id = $2
	`, active, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *repository) SetDefaultAccount(ctx context.Context, gymID, id int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts SET is_default = FALSE, updated_at = NOW() WHERE gym_id = $1 AND is_default
	`, gymID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE accounts SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND gym_id = $2
	`, id, gymID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	return tx.Commit()
}

func (r *repository) Post(ctx context.Context, accountID int, refType ReferenceType, refID int, debit, credit decimal.Decimal, date time.Time) (*LedgerEntry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := r.PostTx(ctx, tx, accountID, refType, refID, debit, credit, date)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) PostTx(ctx context.Context, tx *sqlx.Tx, accountID int, refType ReferenceType, refID int, debit, credit decimal.Decimal, date time.Time) (*LedgerEntry, error) {
	return r.postTx(ctx, tx, accountID, refType, refID, debit, credit, date, false, nil)
}

// postTx serializes concurrent writers on the account row lock so the running
// balance is never derived from a stale predecessor.
func (r *repository) postTx(ctx context.Context, tx *sqlx.Tx, accountID int, refType ReferenceType, refID int, debit, credit decimal.Decimal, date time.Time, reversal bool, reversedEntryID *int64) (*LedgerEntry, error) {
	if err := ValidateAmounts(debit, credit); err != nil {
		return nil, err
	}

	var acc Account
	err := tx.QueryRowxContext(ctx, `
		SELECT * FROM accounts WHERE id = $1 FOR UPDATE
	`, accountID).StructScan(&acc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if !acc.IsActive && !reversal {
		return nil, ErrAccountInactive
	}

	newBalance := acc.CurrentBalance.Add(credit).Sub(debit)

	entry := &LedgerEntry{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO account_ledger_entries (account_id, transaction_date, reference_type, reference_id, debit, credit, balance, is_reversal, reversed_entry_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, account_id, transaction_date, reference_type, reference_id, debit, credit, balance, is_reversal, reversed_entry_id, created_at
	`, accountID, date, refType, refID, debit, credit, newBalance, reversal, reversedEntryID).StructScan(entry)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts SET current_balance = $1, updated_at = NOW() WHERE id = $2
	`, newBalance, accountID); err != nil {
		return nil, err
	}

	metrics.RecordLedgerPosting(string(refType), reversal)
	return entry, nil
}

func (r *repository) Reverse(ctx context.Context, entryID int64) (*LedgerEntry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := r.ReverseTx(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) ReverseTx(ctx context.Context, tx *sqlx.Tx, entryID int64) (*LedgerEntry, error) {
	original := &LedgerEntry{}
	err := tx.QueryRowxContext(ctx, `
		SELECT * FROM account_ledger_entries WHERE id = $1
	`, entryID).StructScan(original)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	// Equal and opposite entry posted at the reversal time, not the original
	// date; a backdated entry would break the running balance chain for
	// anything posted in between. History is never deleted or mutated.
	return r.postTx(ctx, tx, original.AccountID, original.ReferenceType, original.ReferenceID,
		original.Credit, original.Debit, time.Now(), true, &original.ID)
}

func (r *repository) Ledger(ctx context.Context, accountID int, filter LedgerFilter) ([]LedgerEntry, error) {
	query := `SELECT * FROM account_ledger_entries WHERE account_id = $1`
	args := []interface{}{accountID}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND transaction_date >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND transaction_date <= $` + strconv.Itoa(len(args))
	}
	if filter.ReferenceType != nil {
		args = append(args, *filter.ReferenceType)
		query += ` AND reference_type = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY transaction_date, id`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	entries := []LedgerEntry{}
	err := r.db.SelectContext(ctx, &entries, query, args...)
	return entries, err
}

func (r *repository) RecomputedBalance(ctx context.Context, accountID int) (decimal.Decimal, error) {
	acc, err := r.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	var sums struct {
		Credits decimal.Decimal `db:"credits"`
		Debits  decimal.Decimal `db:"debits"`
	}
	err = r.db.GetContext(ctx, &sums, `
		SELECT COALESCE(SUM(credit), 0) AS credits, COALESCE(SUM(debit), 0) AS debits
		FROM account_ledger_entries WHERE account_id = $1
	`, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return acc.OpeningBalance.Add(sums.Credits).Sub(sums.Debits), nil
}

