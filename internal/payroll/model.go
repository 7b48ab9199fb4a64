package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	StatusUnpaid PaymentStatus = "unpaid"
	StatusPaid   PaymentStatus = "paid"
)

// SalaryConfig is versioned: a new config supersedes the active one instead
// of mutating it, so old slips stay explainable.
type SalaryConfig struct {
	ID                 int             `db:"id" json:"id"`
	GymID              int             `db:"gym_id" json:"gym_id"`
	TrainerID          int             `db:"trainer_id" json:"trainer_id"`
	BaseSalary         decimal.Decimal `db:"base_salary" json:"base_salary"`
	PerMemberIncentive decimal.Decimal `db:"per_member_incentive" json:"per_member_incentive"`
	EffectiveFrom      time.Time       `db:"effective_from" json:"effective_from"`
	IsActive           bool            `db:"is_active" json:"is_active"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}

// SalarySlip snapshots the config figures and the member count at generation
// time. The figures never change afterwards; only the payment status moves.
type SalarySlip struct {
	ID                 int             `db:"id" json:"id"`
	GymID              int             `db:"gym_id" json:"gym_id"`
	TrainerID          int             `db:"trainer_id" json:"trainer_id"`
	Month              int             `db:"month" json:"month"`
	Year               int             `db:"year" json:"year"`
	BaseSalary         decimal.Decimal `db:"base_salary" json:"base_salary"`
	ActiveMemberCount  int             `db:"active_member_count" json:"active_member_count"`
	PerMemberIncentive decimal.Decimal `db:"per_member_incentive" json:"per_member_incentive"`
	IncentiveTotal     decimal.Decimal `db:"incentive_total" json:"incentive_total"`
	GrossSalary        decimal.Decimal `db:"gross_salary" json:"gross_salary"`
	PaymentStatus      PaymentStatus   `db:"payment_status" json:"payment_status"`
	LedgerEntryID      *int64          `db:"ledger_entry_id" json:"ledger_entry_id,omitempty"`
	GeneratedAt        time.Time       `db:"generated_at" json:"generated_at"`
	PaidAt             *time.Time      `db:"paid_at" json:"paid_at,omitempty"`
}

type SetConfigRequest struct {
	TrainerID          int             `json:"trainer_id" binding:"required"`
	BaseSalary         decimal.Decimal `json:"base_salary" binding:"required"`
	PerMemberIncentive decimal.Decimal `json:"per_member_incentive"`
	EffectiveFrom      time.Time       `json:"effective_from"`
}

type GenerateSlipRequest struct {
	TrainerID int `json:"trainer_id" binding:"required"`
	Month     int `json:"month" binding:"required,min=1,max=12"`
	Year      int `json:"year" binding:"required"`
}

type MarkPaidRequest struct {
	AccountID   int    `json:"account_id" binding:"required"`
	NoticeEmail string `json:"notice_email,omitempty" binding:"omitempty,email"`
}

type SlipFilter struct {
	TrainerID *int
	Year      *int
	Status    *PaymentStatus
	Limit     int
	Offset    int
}
