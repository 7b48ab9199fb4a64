package membership

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"gymdesk/internal/billing"
	"gymdesk/internal/gym"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockBilling stubs the invoice creation the subscription writes depend on.
type mockBilling struct {
	billing.Repository
	mock.Mock
}

func (m *mockBilling) CreateInvoiceTx(ctx context.Context, tx *sqlx.Tx, gymID, memberID, subscriptionID int, amount, discount decimal.Decimal, dueInDays int) (*billing.Invoice, error) {
	args := m.Called(ctx, tx, gymID, memberID, subscriptionID, amount, discount, dueInDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, *mockBilling, func()) {
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	invoices := new(mockBilling)
	repo := NewRepository(sqlxDB, invoices)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, dbmock, invoices, closer
}

var subscriptionCols = []string{"id", "gym_id", "member_id", "package_id", "trainer_id", "start_date", "end_date",
	"price_paid", "trainer_addon_price", "status", "notes", "created_at", "updated_at"}

func testGymContext() gym.Context {
	return gym.Context{
		GymID: 1,
		Settings: gym.Settings{
			Currency:             "USD",
			InvoiceOverdueInDays: 7,
			MemberInactiveInDays: 30,
		},
	}
}

func TestCreateSubscriptionCreatesInvoiceAtomically(t *testing.T) {
	repo, dbmock, invoices, close := setupMock(t)
	defer close()

	now := time.Now()
	start := now.Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 30)

	dbmock.ExpectBegin()
	dbmock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WithArgs(1, 5, 2, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "").
		WillReturnRows(sqlmock.NewRows(subscriptionCols).
			AddRow(12, 1, 5, 2, nil, start, end, "100", "0", "active", "", now, now))
	invoices.On("CreateInvoiceTx", mock.Anything, mock.Anything, 1, 5, 12,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(100)) }),
		mock.Anything, 7).
		Return(&billing.Invoice{ID: 9, InvoiceNumber: "INV-000001"}, nil).Once()
	dbmock.ExpectCommit()

	sub := &Subscription{
		MemberID:  5,
		PackageID: 2,
		StartDate: start,
		EndDate:   end,
		PricePaid: decimal.NewFromInt(100),
	}
	created, inv, err := repo.CreateSubscription(context.Background(), testGymContext(), sub)
	require.NoError(t, err)
	require.Equal(t, 12, created.ID)
	require.Equal(t, "INV-000001", inv.InvoiceNumber)
	require.NoError(t, dbmock.ExpectationsWereMet())
	invoices.AssertExpectations(t)
}

func TestCreateSubscriptionRollsBackWhenInvoiceFails(t *testing.T) {
	repo, dbmock, invoices, close := setupMock(t)
	defer close()

	now := time.Now()
	boom := errors.New("invoice insert failed")

	dbmock.ExpectBegin()
	dbmock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WithArgs(1, 5, 2, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "").
		WillReturnRows(sqlmock.NewRows(subscriptionCols).
			AddRow(12, 1, 5, 2, nil, now, now.AddDate(0, 0, 30), "100", "0", "active", "", now, now))
	invoices.On("CreateInvoiceTx", mock.Anything, mock.Anything, 1, 5, 12,
		mock.Anything, mock.Anything, 7).
		Return(nil, boom).Once()
	dbmock.ExpectRollback()

	_, _, err := repo.CreateSubscription(context.Background(), testGymContext(), &Subscription{
		MemberID:  5,
		PackageID: 2,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 30),
		PricePaid: decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, dbmock.ExpectationsWereMet())
}

func TestRenewExpiresOldSubscription(t *testing.T) {
	repo, dbmock, invoices, close := setupMock(t)
	defer close()

	now := time.Now()
	start := now.AddDate(0, 0, 1)
	end := start.AddDate(0, 0, 30)

	dbmock.ExpectBegin()
	dbmock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM subscriptions WHERE id = $1 FOR UPDATE")).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows(subscriptionCols).
			AddRow(12, 1, 5, 2, nil, now.AddDate(0, 0, -30), now, "100", "0", "active", "", now, now))
	dbmock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WithArgs(1, 5, 2, nil, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "").
		WillReturnRows(sqlmock.NewRows(subscriptionCols).
			AddRow(13, 1, 5, 2, nil, start, end, "100", "0", "active", "", now, now))
	invoices.On("CreateInvoiceTx", mock.Anything, mock.Anything, 1, 5, 13,
		mock.Anything, mock.Anything, 7).
		Return(&billing.Invoice{ID: 10}, nil).Once()
	dbmock.ExpectExec(regexp.QuoteMeta("UPDATE subscriptions SET status = 'expired'")).
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	dbmock.ExpectCommit()

	created, inv, err := repo.RenewSubscription(context.Background(), testGymContext(), 12, &Subscription{
		MemberID:  5,
		PackageID: 2,
		StartDate: start,
		EndDate:   end,
		PricePaid: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	require.Equal(t, 13, created.ID)
	require.Equal(t, 10, inv.ID)
	require.NoError(t, dbmock.ExpectationsWereMet())
}

func TestRenewCancelledSubscriptionRefused(t *testing.T) {
	repo, dbmock, _, close := setupMock(t)
	defer close()

	now := time.Now()

	dbmock.ExpectBegin()
	dbmock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM subscriptions WHERE id = $1 FOR UPDATE")).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows(subscriptionCols).
			AddRow(12, 1, 5, 2, nil, now.AddDate(0, 0, -30), now, "100", "0", "cancelled", "", now, now))
	dbmock.ExpectRollback()

	_, _, err := repo.RenewSubscription(context.Background(), testGymContext(), 12, &Subscription{
		MemberID:  5,
		PackageID: 2,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 30),
		PricePaid: decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, ErrSubscriptionNotRenewable)
}

func TestCancelSubscription(t *testing.T) {
	repo, dbmock, _, close := setupMock(t)
	defer close()

	now := time.Now()

	dbmock.ExpectQuery(regexp.QuoteMeta("UPDATE subscriptions SET status = 'cancelled'")).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows(subscriptionCols).
			AddRow(12, 1, 5, 2, nil, now, now.AddDate(0, 0, 30), "100", "0", "cancelled", "", now, now))

	sub, err := repo.CancelSubscription(context.Background(), 12)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, sub.Status)

	// not active: the update matches nothing, then the lookup disambiguates
	dbmock.ExpectQuery(regexp.QuoteMeta("UPDATE subscriptions SET status = 'cancelled'")).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows(subscriptionCols))
	dbmock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM subscriptions WHERE id = $1")).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows(subscriptionCols).
			AddRow(12, 1, 5, 2, nil, now, now.AddDate(0, 0, 30), "100", "0", "cancelled", "", now, now))

	_, err = repo.CancelSubscription(context.Background(), 12)
	require.ErrorIs(t, err, ErrSubscriptionNotActive)
}

func TestCountTrainerMembers(t *testing.T) {
	repo, dbmock, _, close := setupMock(t)
	defer close()

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	dbmock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT member_id)")).
		WithArgs(1, 7, to, from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	count, err := repo.CountTrainerMembers(context.Background(), 1, 7, from, to)
	require.NoError(t, err)
	require.Equal(t, 8, count)
}
