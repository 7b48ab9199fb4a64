package billing_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/account"
)

// These tests need a migrated Postgres schema. Point TEST_DATABASE_URL at a
// throwaway database; everything in it gets wiped between tests.
func setupTestDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping integration tests: TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: cannot connect to test database: %v", err)
	}

	return db
}

func cleanDatabase(t *testing.T, db *sqlx.DB) {
	tables := []string{
		"invoice_payments",
		"salary_slips",
		"salary_configs",
		"account_ledger_entries",
		"invoices",
		"subscriptions",
		"packages",
		"accounts",
		"gyms",
		"users",
	}

	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		require.NoError(t, err, "Failed to clean table "+table)
	}
}

func createTestGym(t *testing.T, db *sqlx.DB, name string) int {
	var gymID int
	err := db.QueryRow(`
		INSERT INTO gyms (name, location, currency, invoice_overdue_in_days, member_inactive_in_days)
		VALUES ($1, 'Test Location', 'USD', 7, 30)
		RETURNING id
	`, name).Scan(&gymID)

	require.NoError(t, err)
	return gymID
}

func createTestAccount(t *testing.T, db *sqlx.DB, gymID int, opening decimal.Decimal) int {
	var accountID int
	err := db.QueryRow(`
		INSERT INTO accounts (gym_id, account_type, account_name, opening_balance, current_balance, is_default, is_active)
		VALUES ($1, 'bank', 'Main Account', $2, $2, true, true)
		RETURNING id
	`, gymID, opening).Scan(&accountID)

	require.NoError(t, err)
	return accountID
}

func createTestPackage(t *testing.T, db *sqlx.DB, gymID int, price decimal.Decimal, durationDays int) int {
	var packageID int
	err := db.QueryRow(`
		INSERT INTO packages (gym_id, name, price, duration_days, allows_trainer_addon, is_active)
		VALUES ($1, 'Monthly', $2, $3, true, true)
		RETURNING id
	`, gymID, price, durationDays).Scan(&packageID)

	require.NoError(t, err)
	return packageID
}

func createTestSubscription(t *testing.T, db *sqlx.DB, gymID, memberID int, trainerID *int, start, end string) int {
	var subscriptionID int
	err := db.QueryRow(`
		INSERT INTO subscriptions (gym_id, member_id, package_id, trainer_id, start_date, end_date, price_paid, trainer_addon_price, status)
		SELECT $1, $2, id, $3, $4::date, $5::date, price, 0, 'active' FROM packages WHERE gym_id = $1 LIMIT 1
		RETURNING id
	`, gymID, memberID, trainerID, start, end).Scan(&subscriptionID)

	require.NoError(t, err)
	return subscriptionID
}

func accountBalance(t *testing.T, db *sqlx.DB, accountID int) decimal.Decimal {
	var balance decimal.Decimal
	err := db.Get(&balance, `SELECT current_balance FROM accounts WHERE id = $1`, accountID)
	require.NoError(t, err)
	return balance
}

func recomputedBalance(t *testing.T, db *sqlx.DB, accountRepo account.Repository, accountID int) decimal.Decimal {
	balance, err := accountRepo.RecomputedBalance(context.Background(), accountID)
	require.NoError(t, err)
	return balance
}
