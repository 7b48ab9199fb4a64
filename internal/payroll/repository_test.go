package payroll

import (
	"context"
	"regexp"
	"testing"
	"time"

	"gymdesk/internal/account"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockAccounts stubs the ledger postings the payroll writes depend on.
type mockAccounts struct {
	account.Repository
	mock.Mock
}

func (m *mockAccounts) PostTx(ctx context.Context, tx *sqlx.Tx, accountID int, refType account.ReferenceType, refID int, debit, credit decimal.Decimal, date time.Time) (*account.LedgerEntry, error) {
	args := m.Called(ctx, tx, accountID, refType, refID, debit, credit, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.LedgerEntry), args.Error(1)
}

func (m *mockAccounts) ReverseTx(ctx context.Context, tx *sqlx.Tx, entryID int64) (*account.LedgerEntry, error) {
	args := m.Called(ctx, tx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.LedgerEntry), args.Error(1)
}

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, *mockAccounts, func()) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	accounts := new(mockAccounts)
	repo := NewRepository(sqlxDB, accounts)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, dbmock, accounts, closer
}

var slipCols = []string{"id", "gym_id", "trainer_id", "month", "year", "base_salary", "active_member_count",
	"per_member_incentive", "incentive_total", "gross_salary", "payment_status", "ledger_entry_id", "generated_at", "paid_at"}

func slipRow(id int, status PaymentStatus, entryID interface{}) *sqlmock.Rows {
	return sqlmock.NewRows(slipCols).
		AddRow(id, 1, 7, 3, 2024, "50000", 8, "1000", "8000", "58000", string(status), entryID, time.Now(), nil)
}

func TestInsertSlip(t *testing.T) {
	repo, dbmock, _, close := setupMock(t)
	defer close()

	dbmock.ExpectQuery(regexp.QuoteMeta("INSERT INTO salary_slips")).
		WithArgs(1, 7, 3, 2024, sqlmock.AnyArg(), 8, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(slipRow(21, StatusUnpaid, nil))

	slip, err := repo.InsertSlip(context.Background(), &SalarySlip{
		GymID:              1,
		TrainerID:          7,
		Month:              3,
		Year:               2024,
		BaseSalary:         decimal.NewFromInt(50000),
		ActiveMemberCount:  8,
		PerMemberIncentive: decimal.NewFromInt(1000),
		IncentiveTotal:     decimal.NewFromInt(8000),
		GrossSalary:        decimal.NewFromInt(58000),
	})
	require.NoError(t, err)
	require.Equal(t, 21, slip.ID)
	require.True(t, slip.GrossSalary.Equal(decimal.NewFromInt(58000)))
	require.NoError(t, dbmock.ExpectationsWereMet())
}

func TestInsertSlipDuplicatePeriod(t *testing.T) {
	repo, dbmock, _, close := setupMock(t)
	defer close()

	dbmock.ExpectQuery(regexp.QuoteMeta("INSERT INTO salary_slips")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.InsertSlip(context.Background(), &SalarySlip{GymID: 1, TrainerID: 7, Month: 3, Year: 2024})
	require.ErrorIs(t, err, ErrSlipExists)
}

func TestMarkPaidPostsLedgerDebit(t *testing.T) {
	repo, dbmock, accounts, close := setupMock(t)
	defer close()

	dbmock.ExpectBegin()
	dbmock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM salary_slips WHERE id = $1 FOR UPDATE")).
		WithArgs(21).
		WillReturnRows(slipRow(21, StatusUnpaid, nil))
	accounts.On("PostTx", mock.Anything, mock.Anything, 3, account.ReferenceSalaryPayment, 21,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(58000)) }),
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.IsZero() }),
		mock.Anything).
		Return(&account.LedgerEntry{ID: 99}, nil).Once()
	dbmock.ExpectQuery(regexp.QuoteMeta("UPDATE salary_slips SET payment_status = 'paid', ledger_entry_id = $2, paid_at = NOW()")).
		WithArgs(21, int64(99)).
		WillReturnRows(slipRow(21, StatusPaid, 99))
	dbmock.ExpectCommit()

	slip, err := repo.MarkPaid(context.Background(), 21, 3)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, slip.PaymentStatus)
	require.NotNil(t, slip.LedgerEntryID)
	require.NoError(t, dbmock.ExpectationsWereMet())
	accounts.AssertExpectations(t)
}

func TestMarkPaidTwiceRefused(t *testing.T) {
	repo, dbmock, accounts, close := setupMock(t)
	defer close()

	dbmock.ExpectBegin()
	dbmock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM salary_slips WHERE id = $1 FOR UPDATE")).
		WithArgs(21).
		WillReturnRows(slipRow(21, StatusPaid, 99))
	dbmock.ExpectRollback()

	_, err := repo.MarkPaid(context.Background(), 21, 3)
	require.ErrorIs(t, err, ErrSlipAlreadyPaid)
	accounts.AssertNotCalled(t, "PostTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkPaidMissingSlip(t *testing.T) {
	repo, dbmock, _, close := setupMock(t)
	defer close()

	dbmock.ExpectBegin()
	dbmock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM salary_slips WHERE id = $1 FOR UPDATE")).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows(slipCols))
	dbmock.ExpectRollback()

	_, err := repo.MarkPaid(context.Background(), 404, 3)
	require.ErrorIs(t, err, ErrSlipNotFound)
}

func TestMarkUnpaidReversesLedgerEntry(t *testing.T) {
	repo, dbmock, accounts, close := setupMock(t)
	defer close()

	dbmock.ExpectBegin()
	dbmock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM salary_slips WHERE id = $1 FOR UPDATE")).
		WithArgs(21).
		WillReturnRows(slipRow(21, StatusPaid, 99))
	accounts.On("ReverseTx", mock.Anything, mock.Anything, int64(99)).
		Return(&account.LedgerEntry{ID: 100}, nil).Once()
	dbmock.ExpectQuery(regexp.QuoteMeta("UPDATE salary_slips SET payment_status = 'unpaid', ledger_entry_id = NULL, paid_at = NULL")).
		WithArgs(21).
		WillReturnRows(slipRow(21, StatusUnpaid, nil))
	dbmock.ExpectCommit()

	slip, err := repo.MarkUnpaid(context.Background(), 21)
	require.NoError(t, err)
	require.Equal(t, StatusUnpaid, slip.PaymentStatus)
	require.Nil(t, slip.LedgerEntryID)
	require.NoError(t, dbmock.ExpectationsWereMet())
	accounts.AssertExpectations(t)
}

func TestMarkUnpaidOnUnpaidSlipRefused(t *testing.T) {
	repo, dbmock, accounts, close := setupMock(t)
	defer close()

	dbmock.ExpectBegin()
	dbmock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM salary_slips WHERE id = $1 FOR UPDATE")).
		WithArgs(21).
		WillReturnRows(slipRow(21, StatusUnpaid, nil))
	dbmock.ExpectRollback()

	_, err := repo.MarkUnpaid(context.Background(), 21)
	require.ErrorIs(t, err, ErrSlipNotPaid)
	accounts.AssertNotCalled(t, "ReverseTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfigAsOfPicksLatestEffective(t *testing.T) {
	repo, dbmock, _, close := setupMock(t)
	defer close()

	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	configCols := []string{"id", "gym_id", "trainer_id", "base_salary", "per_member_incentive", "effective_from", "is_active", "created_at"}

	dbmock.ExpectQuery(regexp.QuoteMeta("ORDER BY effective_from DESC LIMIT 1")).
		WithArgs(1, 7, asOf).
		WillReturnRows(sqlmock.NewRows(configCols).
			AddRow(5, 1, 7, "50000", "1000", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true, time.Now()))

	cfg, err := repo.ConfigAsOf(context.Background(), 1, 7, asOf)
	require.NoError(t, err)
	require.True(t, cfg.BaseSalary.Equal(decimal.NewFromInt(50000)))

	dbmock.ExpectQuery(regexp.QuoteMeta("ORDER BY effective_from DESC LIMIT 1")).
		WithArgs(1, 8, asOf).
		WillReturnRows(sqlmock.NewRows(configCols))

	_, err = repo.ConfigAsOf(context.Background(), 1, 8, asOf)
	require.ErrorIs(t, err, ErrNoSalaryConfig)
}

func TestSetConfigDeactivatesPredecessor(t *testing.T) {
	repo, dbmock, _, close := setupMock(t)
	defer close()

	configCols := []string{"id", "gym_id", "trainer_id", "base_salary", "per_member_incentive", "effective_from", "is_active", "created_at"}

	dbmock.ExpectBegin()
	dbmock.ExpectExec(regexp.QuoteMeta("UPDATE salary_configs SET is_active = false")).
		WithArgs(1, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectQuery(regexp.QuoteMeta("INSERT INTO salary_configs")).
		WithArgs(1, 7, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(configCols).
			AddRow(6, 1, 7, "55000", "1200", time.Now(), true, time.Now()))
	dbmock.ExpectCommit()

	cfg, err := repo.SetConfig(context.Background(), 1, SetConfigRequest{
		TrainerID:          7,
		BaseSalary:         decimal.NewFromInt(55000),
		PerMemberIncentive: decimal.NewFromInt(1200),
	})
	require.NoError(t, err)
	require.Equal(t, 6, cfg.ID)
	require.True(t, cfg.IsActive)
	require.NoError(t, dbmock.ExpectationsWereMet())
}
