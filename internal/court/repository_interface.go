package court

import "context"

type Repository interface {
	CreateCourt(ctx context.Context, ownerID int, req CreateCourtRequest) (*Court, error)
	GetAllCourts(ctx context.Context, location string) ([]Court, error)
	GetCourtByID(ctx context.Context, id int) (*Court, error)
	UpdateCourt(ctx context.Context, id int, req CreateCourtRequest) (*Court, error)
	DeleteCourt(ctx context.Context, id int) error
}
