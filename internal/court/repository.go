package court

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCourt(ctx context.Context, ownerID int, req CreateCourtRequest) (*Court, error) {
	query := `
		INSERT INTO courts (owner_id, name, location, surface_type, amenities, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, name, location, surface_type, amenities, description, created_at
	`

	var court Court
	err := r.db.GetContext(ctx, &court, query, ownerID, req.Name, req.Location, req.SurfaceType, req.Amenities, req.Description)
	if err != nil {
		return nil, err
	}

	return &court, nil
}

func (r *repository) GetAllCourts(ctx context.Context, location string) ([]Court, error) {
	query := `
		SELECT id, owner_id, name, location, surface_type, amenities, description, created_at
		FROM courts
	`
	args := []interface{}{}

	if location != "" {
		query += ` WHERE location ILIKE $1`
		args = append(args, "%"+location+"%")
	}
	query += ` ORDER BY created_at DESC`

	var courts []Court
	err := r.db.SelectContext(ctx, &courts, query, args...)
	if err != nil {
		return nil, err
	}

	return courts, nil
}

func (r *repository) GetCourtByID(ctx context.Context, id int) (*Court, error) {
	query := `
		SELECT id, owner_id, name, location, surface_type, amenities, description, created_at
		FROM courts
		WHERE id = $1
	`

	var court Court
	err := r.db.GetContext(ctx, &court, query, id)
	if err != nil {
		return nil, err
	}

	return &court, nil
}

func (r *repository) UpdateCourt(ctx context.Context, id int, req CreateCourtRequest) (*Court, error) {
	query := `
		UPDATE courts
		SET name = $2, location = $3, surface_type = $4, amenities = $5, description = $6
		WHERE id = $1
		RETURNING id, owner_id, name, location, surface_type, amenities, description, created_at
	`

	var court Court
	err := r.db.GetContext(ctx, &court, query, id, req.Name, req.Location, req.SurfaceType, req.Amenities, req.Description)
	if err != nil {
		return nil, err
	}

	return &court, nil
}

func (r *repository) DeleteCourt(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courts WHERE id = $1`, id)
	return err
}
