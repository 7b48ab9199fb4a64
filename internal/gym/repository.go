package gym

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGym(ctx context.Context, name, location string, settings Settings) (*Gym, error) {
	g := &Gym{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO gyms (name, location, currency, invoice_overdue_in_days, member_inactive_in_days)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, location, currency, invoice_overdue_in_days, member_inactive_in_days, created_at, updated_at
	`, name, location, settings.Currency, settings.InvoiceOverdueInDays, settings.MemberInactiveInDays).StructScan(g)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	g := &Gym{}
	err := r.db.GetContext(ctx, g, `SELECT * FROM gyms WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGymNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *repository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	gyms := []Gym{}
	err := r.db.SelectContext(ctx, &gyms, `SELECT * FROM gyms ORDER BY id`)
	return gyms, err
}

func (r *repository) UpdateSettings(ctx context.Context, id int, settings Settings) (*Gym, error) {
	g := &Gym{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE gyms
		SET currency = $1,
		    invoice_overdue_in_days = $2,
		    member_inactive_in_days = $3,
		    updated_at = NOW()
		WHERE id = $4
		RETURNING id, name, location, currency, invoice_overdue_in_days, member_inactive_in_days, created_at, updated_at
	`, settings.Currency, settings.InvoiceOverdueInDays, settings.MemberInactiveInDays, id).StructScan(g)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGymNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}
