package gym

import (
	"context"
	"errors"
)

var (
	ErrGymNotFound     = errors.New("gym not found")
	ErrInvalidSettings = errors.New("invalid gym settings")
)

const (
	defaultCurrency             = "USD"
	defaultInvoiceOverdueInDays = 7
	defaultMemberInactiveInDays = 30
)

type Service interface {
	CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	UpdateSettings(ctx context.Context, id int, req UpdateSettingsRequest) (*Gym, error)
	// ContextFor loads a gym and returns the explicit context the billing
	// and payroll services take instead of ambient gym state.
	ContextFor(ctx context.Context, gymID int) (Context, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error) {
	settings := Settings{
		Currency:             req.Currency,
		InvoiceOverdueInDays: req.InvoiceOverdueInDays,
		MemberInactiveInDays: req.MemberInactiveInDays,
	}
	if settings.Currency == "" {
		settings.Currency = defaultCurrency
	}
	if settings.InvoiceOverdueInDays == 0 {
		settings.InvoiceOverdueInDays = defaultInvoiceOverdueInDays
	}
	if settings.MemberInactiveInDays == 0 {
		settings.MemberInactiveInDays = defaultMemberInactiveInDays
	}
	if settings.InvoiceOverdueInDays < 1 || settings.MemberInactiveInDays < 1 {
		return nil, ErrInvalidSettings
	}

	return s.repo.CreateGym(ctx, req.Name, req.Location, settings)
}

func (s *service) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	return s.repo.GetGymByID(ctx, id)
}

func (s *service) GetAllGyms(ctx context.Context) ([]Gym, error) {
	return s.repo.GetAllGyms(ctx)
}

func (s *service) UpdateSettings(ctx context.Context, id int, req UpdateSettingsRequest) (*Gym, error) {
	if req.InvoiceOverdueInDays < 1 || req.MemberInactiveInDays < 1 || req.Currency == "" {
		return nil, ErrInvalidSettings
	}

	return s.repo.UpdateSettings(ctx, id, Settings{
		Currency:             req.Currency,
		InvoiceOverdueInDays: req.InvoiceOverdueInDays,
		MemberInactiveInDays: req.MemberInactiveInDays,
	})
}

func (s *service) ContextFor(ctx context.Context, gymID int) (Context, error) {
	g, err := s.repo.GetGymByID(ctx, gymID)
	if err != nil {
		return Context{}, err
	}
	return g.Context(), nil
}
