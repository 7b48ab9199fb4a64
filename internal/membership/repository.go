package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymdesk/internal/billing"
	"gymdesk/internal/gym"
	"gymdesk/internal/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const subscriptionColumns = `id, gym_id, member_id, package_id, trainer_id, start_date, end_date, price_paid, trainer_addon_price, status, notes, created_at, updated_at`

type repository struct {
	db      *sqlx.DB
	billing billing.Repository
}

func NewRepository(db *sqlx.DB, billingRepo billing.Repository) Repository {
	return &repository{db: db, billing: billingRepo}
}

func (r *repository) CreatePackage(ctx context.Context, gymID int, req CreatePackageRequest) (*Package, error) {
	p := &Package{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO packages (gym_id, name, price, duration_days, visits_limit, allows_trainer_addon, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id, gym_id, name, price, duration_days, visits_limit, allows_trainer_addon, is_active, created_at, updated_at
	`, gymID, req.Name, req.Price, req.DurationDays, req.VisitsLimit, req.AllowsTrainerAddon).StructScan(p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetPackageByID(ctx context.Context, id int) (*Package, error) {
	p := &Package{}
	err := r.db.GetContext(ctx, p, `SELECT * FROM packages WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) ListPackages(ctx context.Context, gymID int, activeOnly bool) ([]Package, error) {
	packages := []Package{}
	query := `SELECT * FROM packages WHERE gym_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY id`
	err := r.db.SelectContext(ctx, &packages, query, gymID)
	return packages, err
}

// UpdatePackage only affects future subscriptions; existing ones carry their
// own price/duration snapshot.
func (r *repository) UpdatePackage(ctx context.Context, id int, req CreatePackageRequest) (*Package, error) {
	p := &Package{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE packages
		SET name = $1, price = $2, duration_days = $3, visits_limit = $4, allows_trainer_addon = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id, gym_id, name, price, duration_days, visits_limit, allows_trainer_addon, is_active, created_at, updated_at
	`, req.Name, req.Price, req.DurationDays, req.VisitsLimit, req.AllowsTrainerAddon, id).StructScan(p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) SetPackageActive(ctx context.Context, id int, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE packages SET is_active = $1, updated_at = NOW() WHERE id = $2
	`, active, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPackageNotFound
	}
	return nil
}

func (r *repository) insertSubscriptionTx(ctx context.Context, tx *sqlx.Tx, gctx gym.Context, sub *Subscription) (*Subscription, *billing.Invoice, error) {
	created := &Subscription{}
	err := tx.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (gym_id, member_id, package_id, trainer_id, start_date, end_date, price_paid, trainer_addon_price, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active', $9)
		RETURNING `+subscriptionColumns+`
	`, gctx.GymID, sub.MemberID, sub.PackageID, sub.TrainerID, sub.StartDate, sub.EndDate,
		sub.PricePaid, sub.TrainerAddonPrice, sub.Notes).StructScan(created)
	if err != nil {
		return nil, nil, err
	}

	amount := sub.PricePaid.Add(sub.TrainerAddonPrice)
	invoice, err := r.billing.CreateInvoiceTx(ctx, tx, gctx.GymID, sub.MemberID, created.ID,
		amount, decimal.Zero, gctx.Settings.InvoiceOverdueInDays)
	if err != nil {
		return nil, nil, err
	}

	return created, invoice, nil
}

func (r *repository) CreateSubscription(ctx context.Context, gctx gym.Context, sub *Subscription) (*Subscription, *billing.Invoice, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	created, invoice, err := r.insertSubscriptionTx(ctx, tx, gctx, sub)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	metrics.RecordSubscription("signup")
	return created, invoice, nil
}

func (r *repository) RenewSubscription(ctx context.Context, gctx gym.Context, oldID int, sub *Subscription) (*Subscription, *billing.Invoice, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	old := &Subscription{}
	err = tx.QueryRowxContext(ctx, `
		SELECT * FROM subscriptions WHERE id = $1 FOR UPDATE
	`, oldID).StructScan(old)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if old.Status == StatusCancelled {
		return nil, nil, ErrSubscriptionNotRenewable
	}

	created, invoice, err := r.insertSubscriptionTx(ctx, tx, gctx, sub)
	if err != nil {
		return nil, nil, err
	}

	if old.Status == StatusActive {
		if _, err := tx.ExecContext(ctx, `
			UPDATE subscriptions SET status = 'expired', updated_at = NOW() WHERE id = $1
		`, oldID); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	metrics.RecordSubscription("renewal")
	return created, invoice, nil
}

func (r *repository) CancelSubscription(ctx context.Context, id int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE subscriptions SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING `+subscriptionColumns+`
	`, id).StructScan(sub)
	if errors.Is(err, sql.ErrNoRows) {
		// either missing or not active; disambiguate for the caller
		if _, getErr := r.GetSubscriptionByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrSubscriptionNotActive
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) GetSubscriptionByID(ctx context.Context, id int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `SELECT * FROM subscriptions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) ListByMember(ctx context.Context, gymID, memberID int) ([]Subscription, error) {
	subs := []Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT * FROM subscriptions WHERE gym_id = $1 AND member_id = $2 ORDER BY start_date DESC, id DESC
	`, gymID, memberID)
	return subs, err
}

func (r *repository) GetActiveForMember(ctx context.Context, gymID, memberID int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT * FROM subscriptions
		WHERE gym_id = $1 AND member_id = $2 AND status = 'active'
		ORDER BY end_date DESC
		LIMIT 1
	`, gymID, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) CountTrainerMembers(ctx context.Context, gymID, trainerID int, from, to time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(DISTINCT member_id)
		FROM subscriptions
		WHERE gym_id = $1
		  AND trainer_id = $2
		  AND status IN ('active', 'expired')
		  AND start_date <= $3
		  AND end_date >= $4
	`, gymID, trainerID, to, from)
	return count, err
}
