package payroll

import (
	"context"
	"errors"
	"time"

	"gymdesk/internal/gym"
	"gymdesk/internal/membership"

	"github.com/shopspring/decimal"
)

var (
	ErrNoSalaryConfig  = errors.New("no salary config for trainer")
	ErrSlipExists      = errors.New("salary slip already exists for this period")
	ErrSlipNotFound    = errors.New("salary slip not found")
	ErrSlipAlreadyPaid = errors.New("salary slip is already paid")
	ErrSlipNotPaid     = errors.New("salary slip is not paid")
	ErrInvalidPeriod   = errors.New("invalid month or year")
	ErrInvalidSalary   = errors.New("invalid salary amount")
)

type Service interface {
	SetConfig(ctx context.Context, gctx gym.Context, req SetConfigRequest) (*SalaryConfig, error)
	ListConfigs(ctx context.Context, gctx gym.Context, trainerID int) ([]SalaryConfig, error)

	GenerateSlip(ctx context.Context, gctx gym.Context, trainerID, month, year int) (*SalarySlip, error)
	GetSlip(ctx context.Context, id int) (*SalarySlip, error)
	ListSlips(ctx context.Context, gctx gym.Context, filter SlipFilter) ([]SalarySlip, error)

	MarkSlipPaid(ctx context.Context, gctx gym.Context, slipID, accountID int) (*SalarySlip, error)
	MarkSlipUnpaid(ctx context.Context, gctx gym.Context, slipID int) (*SalarySlip, error)
}

type service struct {
	repo    Repository
	members membership.Repository
}

func NewService(repo Repository, members membership.Repository) Service {
	return &service{repo: repo, members: members}
}

func (s *service) SetConfig(ctx context.Context, gctx gym.Context, req SetConfigRequest) (*SalaryConfig, error) {
	if req.BaseSalary.IsNegative() || req.PerMemberIncentive.IsNegative() {
		return nil, ErrInvalidSalary
	}
	return s.repo.SetConfig(ctx, gctx.GymID, req)
}

func (s *service) ListConfigs(ctx context.Context, gctx gym.Context, trainerID int) ([]SalaryConfig, error) {
	return s.repo.ListConfigs(ctx, gctx.GymID, trainerID)
}

func (s *service) GenerateSlip(ctx context.Context, gctx gym.Context, trainerID, month, year int) (*SalarySlip, error) {
	if month < 1 || month > 12 || year < 2000 {
		return nil, ErrInvalidPeriod
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	cfg, err := s.repo.ConfigAsOf(ctx, gctx.GymID, trainerID, monthEnd)
	if err != nil {
		return nil, err
	}

	count, err := s.members.CountTrainerMembers(ctx, gctx.GymID, trainerID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	incentiveTotal := cfg.PerMemberIncentive.Mul(decimal.NewFromInt(int64(count)))
	slip := &SalarySlip{
		GymID:              gctx.GymID,
		TrainerID:          trainerID,
		Month:              month,
		Year:               year,
		BaseSalary:         cfg.BaseSalary,
		ActiveMemberCount:  count,
		PerMemberIncentive: cfg.PerMemberIncentive,
		IncentiveTotal:     incentiveTotal,
		GrossSalary:        cfg.BaseSalary.Add(incentiveTotal),
	}

	return s.repo.InsertSlip(ctx, slip)
}

func (s *service) GetSlip(ctx context.Context, id int) (*SalarySlip, error) {
	return s.repo.GetSlipByID(ctx, id)
}

func (s *service) ListSlips(ctx context.Context, gctx gym.Context, filter SlipFilter) ([]SalarySlip, error) {
	return s.repo.ListSlips(ctx, gctx.GymID, filter)
}

func (s *service) MarkSlipPaid(ctx context.Context, gctx gym.Context, slipID, accountID int) (*SalarySlip, error) {
	return s.repo.MarkPaid(ctx, slipID, accountID)
}

func (s *service) MarkSlipUnpaid(ctx context.Context, gctx gym.Context, slipID int) (*SalarySlip, error) {
	return s.repo.MarkUnpaid(ctx, slipID)
}
