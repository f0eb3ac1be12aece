package dto

import (
	"time"

	"folio/internal/repository"

	"github.com/google/uuid"
)

type PlacementResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Location  string     `json:"location,omitempty"`
	StartedOn time.Time  `json:"started_on"`
	EndedOn   *time.Time `json:"ended_on,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewPlacementResponse(p repository.Placement) PlacementResponse {
	return PlacementResponse{
		ID:        p.ID,
		Title:     p.Title,
		Location:  p.Location,
		StartedOn: p.StartedOn,
		EndedOn:   p.EndedOn,
		CreatedAt: p.CreatedAt,
	}
}
