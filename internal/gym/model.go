package gym

import "time"

// Settings holds the per-gym billing knobs the billing and payroll
// operations read. Both day counts must be at least one.
type Settings struct {
	Currency             string `db:"currency" json:"currency"`
	InvoiceOverdueInDays int    `db:"invoice_overdue_in_days" json:"invoice_overdue_in_days"`
	MemberInactiveInDays int    `db:"member_inactive_in_days" json:"member_inactive_in_days"`
}

type Gym struct {
	ID       int    `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Location string `db:"location" json:"location"`
	Settings
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Context is passed explicitly into every billing, membership and payroll
// operation instead of being carried as ambient request state.
type Context struct {
	GymID    int
	Settings Settings
}

func (g *Gym) Context() Context {
	return Context{GymID: g.ID, Settings: g.Settings}
}

type CreateGymRequest struct {
	Name                 string `json:"name" binding:"required"`
	Location             string `json:"location" binding:"required"`
	Currency             string `json:"currency"`
	InvoiceOverdueInDays int    `json:"invoice_overdue_in_days"`
	MemberInactiveInDays int    `json:"member_inactive_in_days"`
}

type UpdateSettingsRequest struct {
	Currency             string `json:"currency" binding:"required"`
	InvoiceOverdueInDays int    `json:"invoice_overdue_in_days" binding:"required,min=1"`
	MemberInactiveInDays int    `json:"member_inactive_in_days" binding:"required,min=1"`
}
