package dto

import (
	"folio/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillSetResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

type SkillTreeResponse struct {
	Groups []*skill.Group `json:"groups"`
	Facets []skill.Facet  `json:"facets"`
}

type ScaleLevelResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	LevelID   uuid.UUID `json:"level_id"`
	LevelName string    `json:"level_name"`
	Score     int       `json:"score"`
	Color     string    `json:"color"`
}

type ScaleResponse struct {
	ID     uuid.UUID            `json:"id"`
	Name   string               `json:"name"`
	Levels []ScaleLevelResponse `json:"levels"`
}

func NewScaleResponse(s skill.Scale) ScaleResponse {
	levels := make([]ScaleLevelResponse, 0, len(s.Levels))
	for _, lv := range s.Levels {
		levels = append(levels, ScaleLevelResponse{
			ID:        lv.ID,
			Name:      lv.Name,
			LevelID:   lv.LevelID,
			LevelName: lv.LevelName,
			Score:     lv.Score,
			Color:     skill.LevelColor(lv.Score),
		})
	}
	return ScaleResponse{ID: s.ID, Name: s.Name, Levels: levels}
}
