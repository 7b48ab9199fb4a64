package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gymdesk/internal/account"
	"gymdesk/internal/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// selectInvoice pulls the invoice together with the sum of its payments so
// status checks never work from a stale paid total.
const selectInvoice = `
		SELECT i.*, COALESCE((SELECT SUM(p.amount) FROM invoice_payments p WHERE p.invoice_id = i.id), 0) AS paid_total
		FROM invoices i WHERE i.id = $1`

type repository struct {
	db       *sqlx.DB
	accounts account.Repository
}

func NewRepository(db *sqlx.DB, accounts account.Repository) Repository {
	return &repository{db: db, accounts: accounts}
}

func (r *repository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

func (r *repository) CreateInvoice(ctx context.Context, gymID, memberID, subscriptionID int, amount, discount decimal.Decimal, dueInDays int) (*Invoice, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inv, err := r.CreateInvoiceTx(ctx, tx, gymID, memberID, subscriptionID, amount, discount, dueInDays)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repository) CreateInvoiceTx(ctx context.Context, tx *sqlx.Tx, gymID, memberID, subscriptionID int, amount, discount decimal.Decimal, dueInDays int) (*Invoice, error) {
	if amount.IsNegative() || discount.IsNegative() || discount.GreaterThan(amount) {
		return nil, ErrInvalidAmount
	}
	if dueInDays < 1 {
		return nil, ErrInvalidAmount
	}

	// The gym row lock serializes the per-gym invoice number sequence; a
	// unique index on (gym_id, sequence_no) backs it up.
	var lockedGymID int
	err := tx.QueryRowxContext(ctx, `SELECT id FROM gyms WHERE id = $1 FOR UPDATE`, gymID).Scan(&lockedGymID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGymNotFound
	}
	if err != nil {
		return nil, err
	}

	var seq int
	if err := tx.QueryRowxContext(ctx, `
		SELECT COALESCE(MAX(sequence_no), 0) + 1 FROM invoices WHERE gym_id = $1
	`, gymID).Scan(&seq); err != nil {
		return nil, err
	}

	net := amount.Sub(discount)
	inv := &Invoice{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO invoices (gym_id, member_id, subscription_id, sequence_no, invoice_number, amount, discount, net_amount, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'unpaid', NOW() + make_interval(days => $9))
		RETURNING id, gym_id, member_id, subscription_id, sequence_no, invoice_number, amount, discount, net_amount, status, due_date, paid_at, payment_method, created_at, updated_at
	`, gymID, memberID, subscriptionID, seq, fmt.Sprintf("INV-%06d", seq), amount, discount, net, dueInDays).StructScan(inv)
	if err != nil {
		return nil, err
	}

	metrics.InvoicesCreatedTotal.Inc()
	return inv, nil
}

func (r *repository) GetInvoiceByID(ctx context.Context, id int) (*Invoice, error) {
	inv := &Invoice{}
	err := r.db.GetContext(ctx, inv, selectInvoice, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repository) GetPayments(ctx context.Context, invoiceID int) ([]Payment, error) {
	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT * FROM invoice_payments WHERE invoice_id = $1 ORDER BY paid_at, id
	`, invoiceID)
	return payments, err
}

func (r *repository) ListInvoices(ctx context.Context, gymID int, filter InvoiceFilter) ([]Invoice, error) {
	query := `
		SELECT i.*, COALESCE((SELECT SUM(p.amount) FROM invoice_payments p WHERE p.invoice_id = i.id), 0) AS paid_total
		FROM invoices i WHERE i.gym_id = $1`
	args := []interface{}{gymID}

	if filter.MemberID != nil {
		args = append(args, *filter.MemberID)
		query += ` AND i.member_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND i.status = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND i.created_at >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND i.created_at <= $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY i.created_at DESC, i.id DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	invoices := []Invoice{}
	err := r.db.SelectContext(ctx, &invoices, query, args...)
	return invoices, err
}

// RecordPayment inserts the payment row, recomputes the invoice status and
// posts the ledger credit, all inside one transaction.
func (r *repository) RecordPayment(ctx context.Context, invoiceID, accountID int, amount decimal.Decimal, method PaymentMethod, referenceNumber *string, paidAt time.Time) (*Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inv := &Invoice{}
	err = tx.QueryRowxContext(ctx, selectInvoice+` FOR UPDATE OF i`, invoiceID).StructScan(inv)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}

	if inv.Status == StatusPaid || inv.Status == StatusCancelled {
		return nil, ErrInvoiceClosed
	}

	newPaid := inv.PaidTotal.Add(amount)
	if newPaid.GreaterThan(inv.NetAmount) {
		return nil, ErrOverpayment
	}

	entry, err := r.accounts.PostTx(ctx, tx, accountID, account.ReferenceFee, invoiceID, decimal.Zero, amount, paidAt)
	if err != nil {
		return nil, err
	}

	p := &Payment{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO invoice_payments (invoice_id, account_id, ledger_entry_id, amount, payment_method, reference_number, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, invoice_id, account_id, ledger_entry_id, amount, payment_method, reference_number, paid_at, created_at
	`, invoiceID, accountID, entry.ID, amount, method, referenceNumber, paidAt).StructScan(p)
	if err != nil {
		return nil, err
	}

	if newPaid.Equal(inv.NetAmount) {
		_, err = tx.ExecContext(ctx, `
			UPDATE invoices SET status = 'paid', paid_at = $1, payment_method = $2, updated_at = NOW() WHERE id = $3
		`, paidAt, method, invoiceID)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE invoices SET status = 'partially_paid', updated_at = NOW() WHERE id = $1
		`, invoiceID)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.RecordPayment(string(method))
	return p, nil
}

// DeletePayment reverses the payment's ledger entry, walks the invoice status
// backward and removes the payment row in one transaction.
func (r *repository) DeletePayment(ctx context.Context, paymentID int) (*Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p := &Payment{}
	err = tx.QueryRowxContext(ctx, `
		SELECT * FROM invoice_payments WHERE id = $1 FOR UPDATE
	`, paymentID).StructScan(p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	inv := &Invoice{}
	err = tx.QueryRowxContext(ctx, selectInvoice+` FOR UPDATE OF i`, p.InvoiceID).StructScan(inv)
	if err != nil {
		return nil, err
	}

	remaining := inv.PaidTotal.Sub(p.Amount)
	if remaining.IsNegative() {
		return nil, ErrInconsistentPayments
	}

	if _, err := r.accounts.ReverseTx(ctx, tx, p.LedgerEntryID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_payments WHERE id = $1`, paymentID); err != nil {
		return nil, err
	}

	if remaining.IsZero() {
		_, err = tx.ExecContext(ctx, `
			UPDATE invoices SET status = 'unpaid', paid_at = NULL, payment_method = NULL, updated_at = NOW() WHERE id = $1
		`, p.InvoiceID)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE invoices SET status = 'partially_paid', paid_at = NULL, payment_method = NULL, updated_at = NOW() WHERE id = $1
		`, p.InvoiceID)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.PaymentsDeletedTotal.Inc()
	return p, nil
}

func (r *repository) CancelInvoice(ctx context.Context, invoiceID int) (*Invoice, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	inv := &Invoice{}
	err = tx.QueryRowxContext(ctx, selectInvoice+` FOR UPDATE OF i`, invoiceID).StructScan(inv)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}

	if inv.Status == StatusPaid || inv.Status == StatusCancelled {
		return nil, ErrInvoiceClosed
	}
	if inv.PaidTotal.IsPositive() {
		return nil, ErrInvoiceHasPayments
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE invoices SET status = 'cancelled', updated_at = NOW() WHERE id = $1
	`, invoiceID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	inv.Status = StatusCancelled
	return inv, nil
}
