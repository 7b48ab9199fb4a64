package account

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is inactive")
	ErrEntryNotFound   = errors.New("ledger entry not found")
	ErrInvalidAmount   = errors.New("exactly one of debit and credit must be positive")
	ErrInvalidAccount  = errors.New("invalid account payload")
)

// ValidateAmounts enforces the single-sided posting rule: exactly one of
// debit/credit strictly positive, the other exactly zero.
func ValidateAmounts(debit, credit decimal.Decimal) error {
	if debit.IsNegative() || credit.IsNegative() {
		return ErrInvalidAmount
	}
	if debit.IsZero() == credit.IsZero() {
		return ErrInvalidAmount
	}
	return nil
}

type Service interface {
	CreateAccount(ctx context.Context, gymID int, req CreateAccountRequest) (*Account, error)
	GetAccount(ctx context.Context, id int) (*Account, error)
	ListAccounts(ctx context.Context, gymID int) ([]Account, error)
	SetAccountActive(ctx context.Context, id int, active bool) error
	SetDefaultAccount(ctx context.Context, gymID, id int) error

	Post(ctx context.Context, accountID int, req PostEntryRequest) (*LedgerEntry, error)
	Reverse(ctx context.Context, entryID int64) (*LedgerEntry, error)
	Ledger(ctx context.Context, accountID int, filter LedgerFilter) ([]LedgerEntry, error)
	VerifyBalance(ctx context.Context, accountID int) (*BalanceCheck, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateAccount(ctx context.Context, gymID int, req CreateAccountRequest) (*Account, error) {
	if !req.AccountType.Valid() || req.AccountName == "" {
		return nil, ErrInvalidAccount
	}
	if req.OpeningBalance.IsNegative() {
		return nil, ErrInvalidAccount
	}
	return s.repo.CreateAccount(ctx, gymID, req)
}

func (s *service) GetAccount(ctx context.Context, id int) (*Account, error) {
	return s.repo.GetAccountByID(ctx, id)
}

func (s *service) ListAccounts(ctx context.Context, gymID int) ([]Account, error) {
	return s.repo.GetAccountsByGym(ctx, gymID)
}

func (s *service) SetAccountActive(ctx context.Context, id int, active bool) error {
	return s.repo.SetAccountActive(ctx, id, active)
}

func (s *service) SetDefaultAccount(ctx context.Context, gymID, id int) error {
	return s.repo.SetDefaultAccount(ctx, gymID, id)
}

func (s *service) Post(ctx context.Context, accountID int, req PostEntryRequest) (*LedgerEntry, error) {
	if !req.ReferenceType.Valid() {
		return nil, ErrInvalidAmount
	}
	if err := ValidateAmounts(req.Debit, req.Credit); err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	return s.repo.Post(ctx, accountID, req.ReferenceType, req.ReferenceID, req.Debit, req.Credit, date)
}

func (s *service) Reverse(ctx context.Context, entryID int64) (*LedgerEntry, error) {
	return s.repo.Reverse(ctx, entryID)
}

func (s *service) Ledger(ctx context.Context, accountID int, filter LedgerFilter) ([]LedgerEntry, error) {
	if _, err := s.repo.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.repo.Ledger(ctx, accountID, filter)
}

func (s *service) VerifyBalance(ctx context.Context, accountID int) (*BalanceCheck, error) {
	acc, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	recomputed, err := s.repo.RecomputedBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &BalanceCheck{
		AccountID:  accountID,
		Cached:     acc.CurrentBalance,
		Recomputed: recomputed,
		Consistent: acc.CurrentBalance.Equal(recomputed),
	}, nil
}
