package membership

import (
	"context"
	"time"

	"gymdesk/internal/billing"
	"gymdesk/internal/gym"
)

type Repository interface {
	CreatePackage(ctx context.Context, gymID int, req CreatePackageRequest) (*Package, error)
	GetPackageByID(ctx context.Context, id int) (*Package, error)
	ListPackages(ctx context.Context, gymID int, activeOnly bool) ([]Package, error)
	UpdatePackage(ctx context.Context, id int, req CreatePackageRequest) (*Package, error)
	SetPackageActive(ctx context.Context, id int, active bool) error

	// CreateSubscription inserts the subscription and its invoice in one
	// transaction; neither row exists without the other.
	CreateSubscription(ctx context.Context, gctx gym.Context, sub *Subscription) (*Subscription, *billing.Invoice, error)
	// RenewSubscription additionally expires the predecessor in the same
	// transaction. History is never deleted.
	RenewSubscription(ctx context.Context, gctx gym.Context, oldID int, sub *Subscription) (*Subscription, *billing.Invoice, error)
	CancelSubscription(ctx context.Context, id int) (*Subscription, error)

	GetSubscriptionByID(ctx context.Context, id int) (*Subscription, error)
	ListByMember(ctx context.Context, gymID, memberID int) ([]Subscription, error)
	GetActiveForMember(ctx context.Context, gymID, memberID int) (*Subscription, error)

	// CountTrainerMembers counts distinct members with an active or expired
	// subscription under the trainer whose period intersects [from, to].
	CountTrainerMembers(ctx context.Context, gymID, trainerID int, from, to time.Time) (int, error)
}
