package court

import (
	"context"
	"errors"
)

var (
	ErrCourtNotFound = errors.New("court not found")
	ErrNotCourtOwner = errors.New("can only modify own courts")
)

type Service interface {
	CreateCourt(ctx context.Context, ownerID int, req CreateCourtRequest) (*Court, error)
	GetAllCourts(ctx context.Context, location string) ([]Court, error)
	GetCourtByID(ctx context.Context, id int) (*Court, error)
	UpdateCourt(ctx context.Context, id, requesterID int, req CreateCourtRequest) (*Court, error)
	DeleteCourt(ctx context.Context, id, requesterID int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateCourt(ctx context.Context, ownerID int, req CreateCourtRequest) (*Court, error) {
	return s.repo.CreateCourt(ctx, ownerID, req)
}

func (s *service) GetAllCourts(ctx context.Context, location string) ([]Court, error) {
	return s.repo.GetAllCourts(ctx, location)
}

func (s *service) GetCourtByID(ctx context.Context, id int) (*Court, error) {
	court, err := s.repo.GetCourtByID(ctx, id)
	if err != nil {
		return nil, ErrCourtNotFound
	}
	return court, nil
}

func (s *service) UpdateCourt(ctx context.Context, id, requesterID int, req CreateCourtRequest) (*Court, error) {
	existing, err := s.repo.GetCourtByID(ctx, id)
	if err != nil {
		return nil, ErrCourtNotFound
	}

	if existing.OwnerID != requesterID {
		return nil, ErrNotCourtOwner
	}

	return s.repo.UpdateCourt(ctx, id, req)
}

func (s *service) DeleteCourt(ctx context.Context, id, requesterID int) error {
	existing, err := s.repo.GetCourtByID(ctx, id)
	if err != nil {
		return ErrCourtNotFound
	}

	if existing.OwnerID != requesterID {
		return ErrNotCourtOwner
	}

	return s.repo.DeleteCourt(ctx, id)
}
