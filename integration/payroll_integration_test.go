package billing_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/account"
	"gymdesk/internal/billing"
	"gymdesk/internal/gym"
	"gymdesk/internal/membership"
	"gymdesk/internal/payroll"
)

func setupPayroll(t *testing.T) (*payrollEnv, func()) {
	db := setupTestDB(t)
	cleanDatabase(t, db)

	accountRepo := account.NewRepository(db)
	billingRepo := billing.NewRepository(db, accountRepo)
	membershipRepo := membership.NewRepository(db, billingRepo)
	payrollRepo := payroll.NewRepository(db, accountRepo)

	env := &payrollEnv{
		db:          db,
		accountRepo: accountRepo,
		service:     payroll.NewService(payrollRepo, membershipRepo),
	}
	return env, func() { db.Close() }
}

type payrollEnv struct {
	db          *sqlx.DB
	accountRepo account.Repository
	service     payroll.Service
}

func TestConcurrentSlipGenerationOneWinner(t *testing.T) {
	env, close := setupPayroll(t)
	defer close()

	ctx := context.Background()
	gymID := createTestGym(t, env.db, "Payroll Gym")
	createTestPackage(t, env.db, gymID, decimal.NewFromInt(100), 30)

	trainerID := 7
	for member := 1; member <= 8; member++ {
		createTestSubscription(t, env.db, gymID, member, &trainerID, "2024-03-01", "2024-03-31")
	}

	gctx := gym.Context{GymID: gymID, Settings: gym.Settings{Currency: "USD", InvoiceOverdueInDays: 7, MemberInactiveInDays: 30}}
	_, err := env.service.SetConfig(ctx, gctx, payroll.SetConfigRequest{
		TrainerID:          trainerID,
		BaseSalary:         decimal.NewFromInt(50000),
		PerMemberIncentive: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.service.GenerateSlip(ctx, gctx, trainerID, 3, 2024)
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, payroll.ErrSlipExists)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, conflicts)

	var slipCount int
	require.NoError(t, env.db.Get(&slipCount, `SELECT COUNT(*) FROM salary_slips WHERE gym_id = $1`, gymID))
	assert.Equal(t, 1, slipCount)

	var gross decimal.Decimal
	require.NoError(t, env.db.Get(&gross, `SELECT gross_salary FROM salary_slips WHERE gym_id = $1`, gymID))
	assert.True(t, gross.Equal(decimal.NewFromInt(58000)), "expected 58000, got %s", gross)
}

func TestSlipPaymentRoundTrip(t *testing.T) {
	env, close := setupPayroll(t)
	defer close()

	ctx := context.Background()
	gymID := createTestGym(t, env.db, "Payout Gym")
	accountID := createTestAccount(t, env.db, gymID, decimal.NewFromInt(100000))
	createTestPackage(t, env.db, gymID, decimal.NewFromInt(100), 30)

	trainerID := 7
	createTestSubscription(t, env.db, gymID, 1, &trainerID, "2024-03-01", "2024-03-31")

	gctx := gym.Context{GymID: gymID, Settings: gym.Settings{Currency: "USD", InvoiceOverdueInDays: 7, MemberInactiveInDays: 30}}
	_, err := env.service.SetConfig(ctx, gctx, payroll.SetConfigRequest{
		TrainerID:          trainerID,
		BaseSalary:         decimal.NewFromInt(50000),
		PerMemberIncentive: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	slip, err := env.service.GenerateSlip(ctx, gctx, trainerID, 3, 2024)
	require.NoError(t, err)
	require.True(t, slip.GrossSalary.Equal(decimal.NewFromInt(51000)))

	// paying debits the account by the gross salary
	paid, err := env.service.MarkSlipPaid(ctx, gctx, slip.ID, accountID)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, paid.PaymentStatus)
	require.NotNil(t, paid.LedgerEntryID)

	balance := accountBalance(t, env.db, accountID)
	assert.True(t, balance.Equal(decimal.NewFromInt(49000)), "expected 49000, got %s", balance)
	assert.True(t, balance.Equal(recomputedBalance(t, env.db, env.accountRepo, accountID)))

	// paying twice is refused
	_, err = env.service.MarkSlipPaid(ctx, gctx, slip.ID, accountID)
	assert.ErrorIs(t, err, payroll.ErrSlipAlreadyPaid)

	// unpaying reverses the ledger posting and restores the balance
	unpaid, err := env.service.MarkSlipUnpaid(ctx, gctx, slip.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusUnpaid, unpaid.PaymentStatus)
	assert.Nil(t, unpaid.LedgerEntryID)

	balance = accountBalance(t, env.db, accountID)
	assert.True(t, balance.Equal(decimal.NewFromInt(100000)), "expected 100000, got %s", balance)
	assert.True(t, balance.Equal(recomputedBalance(t, env.db, env.accountRepo, accountID)))

	var entryCount int
	require.NoError(t, env.db.Get(&entryCount, `SELECT COUNT(*) FROM account_ledger_entries WHERE account_id = $1`, accountID))
	assert.Equal(t, 2, entryCount)
}
