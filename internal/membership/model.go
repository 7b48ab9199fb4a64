package membership

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusExpired   SubscriptionStatus = "expired"
	StatusCancelled SubscriptionStatus = "cancelled"
)

// Package is a pricing template. Subscriptions snapshot its price and
// duration at signup, so edits only affect future signups.
type Package struct {
	ID                 int             `db:"id" json:"id"`
	GymID              int             `db:"gym_id" json:"gym_id"`
	Name               string          `db:"name" json:"name"`
	Price              decimal.Decimal `db:"price" json:"price"`
	DurationDays       int             `db:"duration_days" json:"duration_days"`
	VisitsLimit        *int            `db:"visits_limit" json:"visits_limit,omitempty"`
	AllowsTrainerAddon bool            `db:"allows_trainer_addon" json:"allows_trainer_addon"`
	IsActive           bool            `db:"is_active" json:"is_active"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

type Subscription struct {
	ID                int                `db:"id" json:"id"`
	GymID             int                `db:"gym_id" json:"gym_id"`
	MemberID          int                `db:"member_id" json:"member_id"`
	PackageID         int                `db:"package_id" json:"package_id"`
	TrainerID         *int               `db:"trainer_id" json:"trainer_id,omitempty"`
	StartDate         time.Time          `db:"start_date" json:"start_date"`
	EndDate           time.Time          `db:"end_date" json:"end_date"`
	PricePaid         decimal.Decimal    `db:"price_paid" json:"price_paid"`
	TrainerAddonPrice decimal.Decimal    `db:"trainer_addon_price" json:"trainer_addon_price"`
	Status            SubscriptionStatus `db:"status" json:"status"`
	Notes             string             `db:"notes" json:"notes"`
	CreatedAt         time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updated_at"`
}

type CreatePackageRequest struct {
	Name               string          `json:"name" binding:"required"`
	Price              decimal.Decimal `json:"price" binding:"required"`
	DurationDays       int             `json:"duration_days" binding:"required,min=1"`
	VisitsLimit        *int            `json:"visits_limit,omitempty"`
	AllowsTrainerAddon bool            `json:"allows_trainer_addon"`
}

type CreateSubscriptionRequest struct {
	MemberID          int             `json:"member_id" binding:"required"`
	PackageID         int             `json:"package_id" binding:"required"`
	TrainerID         *int            `json:"trainer_id,omitempty"`
	StartDate         time.Time       `json:"start_date"`
	PricePaid         decimal.Decimal `json:"price_paid"`
	TrainerAddonPrice decimal.Decimal `json:"trainer_addon_price"`
	Notes             string          `json:"notes"`
}

type RenewSubscriptionRequest struct {
	PackageID         int             `json:"package_id" binding:"required"`
	TrainerID         *int            `json:"trainer_id,omitempty"`
	StartDate         time.Time       `json:"start_date"`
	PricePaid         decimal.Decimal `json:"price_paid"`
	TrainerAddonPrice decimal.Decimal `json:"trainer_addon_price"`
	Notes             string          `json:"notes"`
}
