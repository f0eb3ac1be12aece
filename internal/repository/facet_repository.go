package repository

import (
	"context"

	"folio/internal/database"
	"folio/internal/domain/skill"

	"github.com/google/uuid"
)

type FacetRepository interface {
	ListBySkillSet(ctx context.Context, skillSetID uuid.UUID) ([]skill.Facet, error)
}

type PostgresFacetRepository struct {
	db database.DB
}

func NewPostgresFacetRepository(db database.DB) *PostgresFacetRepository {
	return &PostgresFacetRepository{db: db}
}

func (r *PostgresFacetRepository) ListBySkillSet(ctx context.Context, skillSetID uuid.UUID) ([]skill.Facet, error) {
	rows, err := r.db.Query(ctx,
		`SELECT f.id, f.name, f.skill_filter_id
		 FROM skill_filter_facets f
		 JOIN skill_filters sf ON sf.id = f.skill_filter_id
		 WHERE sf.skill_set_id = $1
		 ORDER BY sf.name ASC, f.name ASC`,
		skillSetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	facets := make([]skill.Facet, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var f skill.Facet
		if err := rows.Scan(&f.ID, &f.Name, &f.FilterID); err != nil {
			return nil, err
		}
		index[f.ID] = len(facets)
		facets = append(facets, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(facets) == 0 {
		return facets, nil
	}

	matchRows, err := r.db.Query(ctx,
		`SELECT fs.facet_id, fs.skill_id
		 FROM facet_skills fs
		 JOIN skill_filter_facets f ON f.id = fs.facet_id
		 JOIN skill_filters sf ON sf.id = f.skill_filter_id
		 WHERE sf.skill_set_id = $1`,
		skillSetID,
	)
	if err != nil {
		return nil, err
	}
	defer matchRows.Close()

	for matchRows.Next() {
		var facetID, skillID uuid.UUID
		if err := matchRows.Scan(&facetID, &skillID); err != nil {
			return nil, err
		}
		if i, ok := index[facetID]; ok {
			facets[i].MatchedSkills = append(facets[i].MatchedSkills, skillID)
		}
	}
	if err := matchRows.Err(); err != nil {
		return nil, err
	}
	return facets, nil
}
