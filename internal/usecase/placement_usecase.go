package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"folio/internal/repository"

	"github.com/google/uuid"
)

var ErrPlacementNotFound = errors.New("placement not found")

type CreatePlacementInput struct {
	Title     string
	Location  string
	StartedOn time.Time
	EndedOn   *time.Time
}

type PlacementUsecase interface {
	CreatePlacement(ctx context.Context, userID uuid.UUID, in CreatePlacementInput) (repository.Placement, error)
	ListPlacements(ctx context.Context, userID uuid.UUID) ([]repository.Placement, error)
	DeletePlacement(ctx context.Context, userID, placementID uuid.UUID) error
}

type PlacementService struct {
	placements repository.PlacementRepository
}

func NewPlacementUsecase(placements repository.PlacementRepository) *PlacementService {
	return &PlacementService{placements: placements}
}

func (u *PlacementService) CreatePlacement(ctx context.Context, userID uuid.UUID, in CreatePlacementInput) (repository.Placement, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.StartedOn.IsZero() {
		return repository.Placement{}, ErrInvalidInput
	}
	if in.EndedOn != nil && in.EndedOn.Before(in.StartedOn) {
		return repository.Placement{}, ErrInvalidInput
	}

	created, err := u.placements.Create(ctx, repository.Placement{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Location:  strings.TrimSpace(in.Location),
		StartedOn: in.StartedOn,
		EndedOn:   in.EndedOn,
	})
	if err != nil {
		return repository.Placement{}, ErrInternal
	}
	return created, nil
}

func (u *PlacementService) ListPlacements(ctx context.Context, userID uuid.UUID) ([]repository.Placement, error) {
	items, err := u.placements.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *PlacementService) DeletePlacement(ctx context.Context, userID, placementID uuid.UUID) error {
	if placementID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.placements.Delete(ctx, placementID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrPlacementNotFound):
			return ErrPlacementNotFound
		case errors.Is(err, repository.ErrPlacementForbidden):
			return ErrForbidden
		default:
			return ErrInternal
		}
	}
	return nil
}
