package payroll

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"gymdesk/internal/account"
	"gymdesk/internal/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const slipColumns = `id, gym_id, trainer_id, month, year, base_salary, active_member_count,
		per_member_incentive, incentive_total, gross_salary, payment_status, ledger_entry_id, generated_at, paid_at`

type repository struct {
	db       *sqlx.DB
	accounts account.Repository
}

func NewRepository(db *sqlx.DB, accounts account.Repository) Repository {
	return &repository{db: db, accounts: accounts}
}

func (r *repository) SetConfig(ctx context.Context, gymID int, req SetConfigRequest) (*SalaryConfig, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE salary_configs SET is_active = false
		WHERE gym_id = $1 AND trainer_id = $2 AND is_active = true
	`, gymID, req.TrainerID); err != nil {
		return nil, err
	}

	effectiveFrom := req.EffectiveFrom
	if effectiveFrom.IsZero() {
		effectiveFrom = time.Now()
	}

	cfg := &SalaryConfig{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO salary_configs (gym_id, trainer_id, base_salary, per_member_incentive, effective_from, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id, gym_id, trainer_id, base_salary, per_member_incentive, effective_from, is_active, created_at
	`, gymID, req.TrainerID, req.BaseSalary, req.PerMemberIncentive, effectiveFrom).StructScan(cfg)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *repository) ConfigAsOf(ctx context.Context, gymID, trainerID int, date time.Time) (*SalaryConfig, error) {
	cfg := &SalaryConfig{}
	err := r.db.GetContext(ctx, cfg, `
		SELECT * FROM salary_configs
		WHERE gym_id = $1 AND trainer_id = $2 AND is_active = true AND effective_from <= $3
		ORDER BY effective_from DESC LIMIT 1
	`, gymID, trainerID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSalaryConfig
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *repository) ListConfigs(ctx context.Context, gymID, trainerID int) ([]SalaryConfig, error) {
	configs := []SalaryConfig{}
	err := r.db.SelectContext(ctx, &configs, `
		SELECT * FROM salary_configs
		WHERE gym_id = $1 AND trainer_id = $2
		ORDER BY effective_from DESC, id DESC
	`, gymID, trainerID)
	return configs, err
}

func (r *repository) InsertSlip(ctx context.Context, slip *SalarySlip) (*SalarySlip, error) {
	out := &SalarySlip{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO salary_slips (gym_id, trainer_id, month, year, base_salary, active_member_count,
			per_member_incentive, incentive_total, gross_salary, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'unpaid')
		RETURNING `+slipColumns+`
	`, slip.GymID, slip.TrainerID, slip.Month, slip.Year, slip.BaseSalary, slip.ActiveMemberCount,
		slip.PerMemberIncentive, slip.IncentiveTotal, slip.GrossSalary).StructScan(out)
	if err != nil {
		// The unique index on (gym_id, trainer_id, month, year) decides the
		// winner between concurrent generations.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			metrics.SalarySlipConflictsTotal.Inc()
			return nil, ErrSlipExists
		}
		return nil, err
	}

	metrics.SalarySlipsGeneratedTotal.Inc()
	return out, nil
}

func (r *repository) GetSlipByID(ctx context.Context, id int) (*SalarySlip, error) {
	slip := &SalarySlip{}
	err := r.db.GetContext(ctx, slip, `SELECT * FROM salary_slips WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlipNotFound
	}
	if err != nil {
		return nil, err
	}
	return slip, nil
}

func (r *repository) ListSlips(ctx context.Context, gymID int, filter SlipFilter) ([]SalarySlip, error) {
	query := `SELECT * FROM salary_slips WHERE gym_id = $1`
	args := []interface{}{gymID}

	if filter.TrainerID != nil {
		args = append(args, *filter.TrainerID)
		query += ` AND trainer_id = $` + strconv.Itoa(len(args))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		query += ` AND year = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND payment_status = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY year DESC, month DESC, trainer_id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	slips := []SalarySlip{}
	err := r.db.SelectContext(ctx, &slips, query, args...)
	return slips, err
}

func (r *repository) MarkPaid(ctx context.Context, slipID, accountID int) (*SalarySlip, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	slip := &SalarySlip{}
	err = tx.GetContext(ctx, slip, `SELECT * FROM salary_slips WHERE id = $1 FOR UPDATE`, slipID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlipNotFound
	}
	if err != nil {
		return nil, err
	}
	if slip.PaymentStatus == StatusPaid {
		return nil, ErrSlipAlreadyPaid
	}

	entry, err := r.accounts.PostTx(ctx, tx, accountID, account.ReferenceSalaryPayment, slip.ID,
		slip.GrossSalary, decimal.Zero, time.Now())
	if err != nil {
		return nil, err
	}

	out := &SalarySlip{}
	err = tx.QueryRowxContext(ctx, `
		UPDATE salary_slips SET payment_status = 'paid', ledger_entry_id = $2, paid_at = NOW()
		WHERE id = $1
		RETURNING `+slipColumns+`
	`, slip.ID, entry.ID).StructScan(out)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) MarkUnpaid(ctx context.Context, slipID int) (*SalarySlip, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	slip := &SalarySlip{}
	err = tx.GetContext(ctx, slip, `SELECT * FROM salary_slips WHERE id = $1 FOR UPDATE`, slipID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlipNotFound
	}
	if err != nil {
		return nil, err
	}
	if slip.PaymentStatus != StatusPaid || slip.LedgerEntryID == nil {
		return nil, ErrSlipNotPaid
	}

	if _, err := r.accounts.ReverseTx(ctx, tx, *slip.LedgerEntryID); err != nil {
		return nil, err
	}

	out := &SalarySlip{}
	err = tx.QueryRowxContext(ctx, `
		UPDATE salary_slips SET payment_status = 'unpaid', ledger_entry_id = NULL, paid_at = NULL
		WHERE id = $1
		RETURNING `+slipColumns+`
	`, slip.ID).StructScan(out)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}
