package payroll

import (
	"context"
	"testing"
	"time"

	"gymdesk/internal/gym"
	"gymdesk/internal/membership"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPayrollRepo struct {
	mock.Mock
}

func (m *MockPayrollRepo) SetConfig(ctx context.Context, gymID int, req SetConfigRequest) (*SalaryConfig, error) {
	args := m.Called(ctx, gymID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SalaryConfig), args.Error(1)
}

func (m *MockPayrollRepo) ConfigAsOf(ctx context.Context, gymID, trainerID int, date time.Time) (*SalaryConfig, error) {
	args := m.Called(ctx, gymID, trainerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SalaryConfig), args.Error(1)
}

func (m *MockPayrollRepo) ListConfigs(ctx context.Context, gymID, trainerID int) ([]SalaryConfig, error) {
	args := m.Called(ctx, gymID, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SalaryConfig), args.Error(1)
}

func (m *MockPayrollRepo) InsertSlip(ctx context.Context, slip *SalarySlip) (*SalarySlip, error) {
	args := m.Called(ctx, slip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SalarySlip), args.Error(1)
}

func (m *MockPayrollRepo) GetSlipByID(ctx context.Context, id int) (*SalarySlip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SalarySlip), args.Error(1)
}

func (m *MockPayrollRepo) ListSlips(ctx context.Context, gymID int, filter SlipFilter) ([]SalarySlip, error) {
	args := m.Called(ctx, gymID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SalarySlip), args.Error(1)
}

func (m *MockPayrollRepo) MarkPaid(ctx context.Context, slipID, accountID int) (*SalarySlip, error) {
	args := m.Called(ctx, slipID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SalarySlip), args.Error(1)
}

func (m *MockPayrollRepo) MarkUnpaid(ctx context.Context, slipID int) (*SalarySlip, error) {
	args := m.Called(ctx, slipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SalarySlip), args.Error(1)
}

// mockMembers only answers the member count query the slip math needs.
type mockMembers struct {
	membership.Repository
	mock.Mock
}

func (m *mockMembers) CountTrainerMembers(ctx context.Context, gymID, trainerID int, from, to time.Time) (int, error) {
	args := m.Called(ctx, gymID, trainerID, from, to)
	return args.Int(0), args.Error(1)
}

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

func TestGenerateSlipComputesGrossSalary(t *testing.T) {
	repo := new(MockPayrollRepo)
	members := new(mockMembers)
	svc := NewService(repo, members)

	monthStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	repo.On("ConfigAsOf", mock.Anything, 1, 7, monthEnd).Return(&SalaryConfig{
		GymID:              1,
		TrainerID:          7,
		BaseSalary:         decimal.NewFromInt(50000),
		PerMemberIncentive: decimal.NewFromInt(1000),
	}, nil)
	members.On("CountTrainerMembers", mock.Anything, 1, 7, monthStart, monthEnd).Return(8, nil)
	repo.On("InsertSlip", mock.Anything, mock.MatchedBy(func(slip *SalarySlip) bool {
		return slip.ActiveMemberCount == 8 &&
			slip.IncentiveTotal.Equal(decimal.NewFromInt(8000)) &&
			slip.GrossSalary.Equal(decimal.NewFromInt(58000))
	})).Return(&SalarySlip{
		ID:          21,
		GrossSalary: decimal.NewFromInt(58000),
	}, nil)

	slip, err := svc.GenerateSlip(context.Background(), testGymContext(), 7, 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, 21, slip.ID)
	repo.AssertExpectations(t)
	members.AssertExpectations(t)
}

func TestGenerateSlipZeroMembers(t *testing.T) {
	repo := new(MockPayrollRepo)
	members := new(mockMembers)
	svc := NewService(repo, members)

	repo.On("ConfigAsOf", mock.Anything, 1, 7, mock.Anything).Return(&SalaryConfig{
		BaseSalary:         decimal.NewFromInt(50000),
		PerMemberIncentive: decimal.NewFromInt(1000),
	}, nil)
	members.On("CountTrainerMembers", mock.Anything, 1, 7, mock.Anything, mock.Anything).Return(0, nil)
	repo.On("InsertSlip", mock.Anything, mock.MatchedBy(func(slip *SalarySlip) bool {
		return slip.IncentiveTotal.IsZero() && slip.GrossSalary.Equal(decimal.NewFromInt(50000))
	})).Return(&SalarySlip{ID: 22}, nil)

	_, err := svc.GenerateSlip(context.Background(), testGymContext(), 7, 3, 2024)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGenerateSlipNoConfig(t *testing.T) {
	repo := new(MockPayrollRepo)
	members := new(mockMembers)
	svc := NewService(repo, members)

	repo.On("ConfigAsOf", mock.Anything, 1, 7, mock.Anything).Return(nil, ErrNoSalaryConfig)

	_, err := svc.GenerateSlip(context.Background(), testGymContext(), 7, 3, 2024)
	assert.ErrorIs(t, err, ErrNoSalaryConfig)
	repo.AssertNotCalled(t, "InsertSlip", mock.Anything, mock.Anything)
	members.AssertNotCalled(t, "CountTrainerMembers", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateSlipInvalidPeriod(t *testing.T) {
	repo := new(MockPayrollRepo)
	svc := NewService(repo, new(mockMembers))

	cases := []struct {
		month int
		year  int
	}{
		{0, 2024},
		{13, 2024},
		{3, 1999},
	}
	for _, tc := range cases {
		_, err := svc.GenerateSlip(context.Background(), testGymContext(), 7, tc.month, tc.year)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	}
	repo.AssertNotCalled(t, "ConfigAsOf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetConfigRejectsNegativeSalary(t *testing.T) {
	repo := new(MockPayrollRepo)
	svc := NewService(repo, new(mockMembers))

	_, err := svc.SetConfig(context.Background(), testGymContext(), SetConfigRequest{
		TrainerID:  7,
		BaseSalary: decimal.NewFromInt(-100),
	})
	assert.ErrorIs(t, err, ErrInvalidSalary)

	_, err = svc.SetConfig(context.Background(), testGymContext(), SetConfigRequest{
		TrainerID:          7,
		BaseSalary:         decimal.NewFromInt(50000),
		PerMemberIncentive: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, ErrInvalidSalary)
	repo.AssertNotCalled(t, "SetConfig", mock.Anything, mock.Anything, mock.Anything)
}
