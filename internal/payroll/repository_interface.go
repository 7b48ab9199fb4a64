package payroll

import (
	"context"
	"time"
)

type Repository interface {
	// SetConfig deactivates the trainer's current active config and inserts
	// the new one in the same transaction.
	SetConfig(ctx context.Context, gymID int, req SetConfigRequest) (*SalaryConfig, error)
	// ConfigAsOf returns the latest config with effective_from on or before
	// the given date.
	ConfigAsOf(ctx context.Context, gymID, trainerID int, date time.Time) (*SalaryConfig, error)
	ListConfigs(ctx context.Context, gymID, trainerID int) ([]SalaryConfig, error)

	// InsertSlip relies on the unique (gym_id, trainer_id, month, year)
	// index; a duplicate insert surfaces as ErrSlipExists.
	InsertSlip(ctx context.Context, slip *SalarySlip) (*SalarySlip, error)
	GetSlipByID(ctx context.Context, id int) (*SalarySlip, error)
	ListSlips(ctx context.Context, gymID int, filter SlipFilter) ([]SalarySlip, error)

	// MarkPaid posts the salary debit and flips the slip to paid in one
	// transaction. MarkUnpaid reverses that posting the same way.
	MarkPaid(ctx context.Context, slipID, accountID int) (*SalarySlip, error)
	MarkUnpaid(ctx context.Context, slipID int) (*SalarySlip, error)
}
