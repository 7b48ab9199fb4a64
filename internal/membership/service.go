package membership

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"gymdesk/internal/billing"
	"gymdesk/internal/gym"
)

var (
	ErrPackageNotFound          = errors.New("package not found")
	ErrPackageInactive          = errors.New("package is inactive")
	ErrTrainerAddonNotAllowed   = errors.New("package does not allow a trainer addon")
	ErrMemberNotFound           = errors.New("member not found")
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrSubscriptionNotActive    = errors.New("subscription is not active")
	ErrSubscriptionNotRenewable = errors.New("cancelled subscription cannot be renewed")
	ErrInvalidPrice             = errors.New("invalid price")
)

type Service interface {
	CreatePackage(ctx context.Context, gctx gym.Context, req CreatePackageRequest) (*Package, error)
	GetPackage(ctx context.Context, id int) (*Package, error)
	ListPackages(ctx context.Context, gctx gym.Context, activeOnly bool) ([]Package, error)
	UpdatePackage(ctx context.Context, id int, req CreatePackageRequest) (*Package, error)
	SetPackageActive(ctx context.Context, id int, active bool) error

	CreateSubscription(ctx context.Context, gctx gym.Context, req CreateSubscriptionRequest) (*Subscription, *billing.Invoice, error)
	RenewSubscription(ctx context.Context, gctx gym.Context, oldID int, req RenewSubscriptionRequest) (*Subscription, *billing.Invoice, error)
	CancelSubscription(ctx context.Context, gctx gym.Context, id int) (*Subscription, error)
	GetSubscription(ctx context.Context, id int) (*Subscription, error)
	ListMemberSubscriptions(ctx context.Context, gctx gym.Context, memberID int) ([]Subscription, error)
	GetActiveSubscription(ctx context.Context, gctx gym.Context, memberID int) (*Subscription, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreatePackage(ctx context.Context, gctx gym.Context, req CreatePackageRequest) (*Package, error) {
	if req.Price.IsNegative() || req.DurationDays < 1 {
		return nil, ErrInvalidPrice
	}
	return s.repo.CreatePackage(ctx, gctx.GymID, req)
}

func (s *service) GetPackage(ctx context.Context, id int) (*Package, error) {
	return s.repo.GetPackageByID(ctx, id)
}

func (s *service) ListPackages(ctx context.Context, gctx gym.Context, activeOnly bool) ([]Package, error) {
	return s.repo.ListPackages(ctx, gctx.GymID, activeOnly)
}

func (s *service) UpdatePackage(ctx context.Context, id int, req CreatePackageRequest) (*Package, error) {
	if req.Price.IsNegative() || req.DurationDays < 1 {
		return nil, ErrInvalidPrice
	}
	return s.repo.UpdatePackage(ctx, id, req)
}

func (s *service) SetPackageActive(ctx context.Context, id int, active bool) error {
	return s.repo.SetPackageActive(ctx, id, active)
}

// buildSubscription validates the request against the package and snapshots
// price and duration onto the subscription row.
func (s *service) buildSubscription(ctx context.Context, memberID, packageID int, trainerID *int, startDate time.Time, pricePaid, addonPrice decimal.Decimal, notes string) (*Subscription, error) {
	if memberID <= 0 {
		return nil, ErrMemberNotFound
	}

	pkg, err := s.repo.GetPackageByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, ErrPackageInactive
	}
	if trainerID != nil && !pkg.AllowsTrainerAddon {
		return nil, ErrTrainerAddonNotAllowed
	}
	if pricePaid.IsNegative() || addonPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if trainerID == nil && addonPrice.IsPositive() {
		return nil, ErrTrainerAddonNotAllowed
	}

	// A zero price means "charge the package price"; free subscriptions are
	// granted by zero-priced packages, not by a zero price_paid.
	if pricePaid.IsZero() {
		pricePaid = pkg.Price
	}
	if startDate.IsZero() {
		startDate = time.Now().Truncate(24 * time.Hour)
	}

	return &Subscription{
		MemberID:          memberID,
		PackageID:         pkg.ID,
		TrainerID:         trainerID,
		StartDate:         startDate,
		EndDate:           startDate.AddDate(0, 0, pkg.DurationDays),
		PricePaid:         pricePaid,
		TrainerAddonPrice: addonPrice,
		Status:            StatusActive,
		Notes:             notes,
	}, nil
}

func (s *service) CreateSubscription(ctx context.Context, gctx gym.Context, req CreateSubscriptionRequest) (*Subscription, *billing.Invoice, error) {
	sub, err := s.buildSubscription(ctx, req.MemberID, req.PackageID, req.TrainerID, req.StartDate, req.PricePaid, req.TrainerAddonPrice, req.Notes)
	if err != nil {
		return nil, nil, err
	}

	return s.repo.CreateSubscription(ctx, gctx, sub)
}

func (s *service) RenewSubscription(ctx context.Context, gctx gym.Context, oldID int, req RenewSubscriptionRequest) (*Subscription, *billing.Invoice, error) {
	old, err := s.repo.GetSubscriptionByID(ctx, oldID)
	if err != nil {
		return nil, nil, err
	}
	if old.Status == StatusCancelled {
		return nil, nil, ErrSubscriptionNotRenewable
	}

	startDate := req.StartDate
	if startDate.IsZero() {
		// default to the day after the old period ends, or tomorrow if
		// the old subscription already lapsed
		tomorrow := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, 1)
		startDate = old.EndDate
		if tomorrow.After(startDate) {
			startDate = tomorrow
		}
	}

	sub, err := s.buildSubscription(ctx, old.MemberID, req.PackageID, req.TrainerID, startDate, req.PricePaid, req.TrainerAddonPrice, req.Notes)
	if err != nil {
		return nil, nil, err
	}

	return s.repo.RenewSubscription(ctx, gctx, oldID, sub)
}

func (s *service) CancelSubscription(ctx context.Context, gctx gym.Context, id int) (*Subscription, error) {
	return s.repo.CancelSubscription(ctx, id)
}

func (s *service) GetSubscription(ctx context.Context, id int) (*Subscription, error) {
	return s.repo.GetSubscriptionByID(ctx, id)
}

func (s *service) ListMemberSubscriptions(ctx context.Context, gctx gym.Context, memberID int) ([]Subscription, error) {
	return s.repo.ListByMember(ctx, gctx.GymID, memberID)
}

func (s *service) GetActiveSubscription(ctx context.Context, gctx gym.Context, memberID int) (*Subscription, error) {
	return s.repo.GetActiveForMember(ctx, gctx.GymID, memberID)
}
