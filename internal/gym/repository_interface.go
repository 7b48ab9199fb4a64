package gym

import "context"

type Repository interface {
	CreateGym(ctx context.Context, name, location string, settings Settings) (*Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	UpdateSettings(ctx context.Context, id int, settings Settings) (*Gym, error)
}
