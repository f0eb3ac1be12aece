package repository

import (
	"context"
	"errors"

	"folio/internal/database"
	"folio/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrSkillSetNotFound = errors.New("skill set not found")
	ErrScaleNotFound    = errors.New("scale not found")
)

type SkillSetItem struct {
	ID          uuid.UUID
	Name        string
	Description string
}

type SkillSetRepository interface {
	ListSkillSets(ctx context.Context) ([]SkillSetItem, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	GetTree(ctx context.Context, skillSetID uuid.UUID) ([]*skill.Group, error)
	GetScale(ctx context.Context, scaleID uuid.UUID) (skill.Scale, error)
	LowestLevel(ctx context.Context, scaleID uuid.UUID) (skill.ScaleLevel, error)
}

type PostgresSkillSetRepository struct {
	db database.DB
}

func NewPostgresSkillSetRepository(db database.DB) *PostgresSkillSetRepository {
	return &PostgresSkillSetRepository{db: db}
}

func (r *PostgresSkillSetRepository) ListSkillSets(ctx context.Context) ([]SkillSetItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, COALESCE(description, '') FROM skill_sets ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SkillSetItem, 0)
	for rows.Next() {
		var it SkillSetItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Description); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillSetRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skill_sets WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// GetTree assembles the full group/skill tree of a skill set. Groups and
// skills come back in position order; nested skills hang off their parent
// skill, everything else off its group.
func (r *PostgresSkillSetRepository) GetTree(ctx context.Context, skillSetID uuid.UUID) ([]*skill.Group, error) {
	exists, err := r.ExistsByID(ctx, skillSetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSkillSetNotFound
	}

	groupRows, err := r.db.Query(ctx,
		`SELECT id, parent_group_id, name, COALESCE(description, '')
		 FROM skill_groups
		 WHERE skill_set_id = $1
		 ORDER BY position ASC, name ASC`,
		skillSetID,
	)
	if err != nil {
		return nil, err
	}
	defer groupRows.Close()

	type groupRow struct {
		group  *skill.Group
		parent *uuid.UUID
	}
	groupsByID := make(map[uuid.UUID]*skill.Group)
	ordered := make([]groupRow, 0)
	for groupRows.Next() {
		var (
			g      skill.Group
			parent *uuid.UUID
		)
		if err := groupRows.Scan(&g.ID, &parent, &g.Name, &g.Description); err != nil {
			return nil, err
		}
		gp := &g
		groupsByID[g.ID] = gp
		ordered = append(ordered, groupRow{group: gp, parent: parent})
	}
	if err := groupRows.Err(); err != nil {
		return nil, err
	}

	skillRows, err := r.db.Query(ctx,
		`SELECT id, group_id, parent_skill_id, name, COALESCE(description, ''),
		        can_self_assess, can_self_count,
		        COALESCE(scale_id, '00000000-0000-0000-0000-000000000000'::uuid)
		 FROM skills
		 WHERE skill_set_id = $1
		 ORDER BY position ASC, name ASC`,
		skillSetID,
	)
	if err != nil {
		return nil, err
	}
	defer skillRows.Close()

	type skillRow struct {
		sk       *skill.Skill
		groupID  *uuid.UUID
		parentID *uuid.UUID
	}
	skillsByID := make(map[uuid.UUID]*skill.Skill)
	skillRowsOrdered := make([]skillRow, 0)
	for skillRows.Next() {
		var (
			s        skill.Skill
			groupID  *uuid.UUID
			parentID *uuid.UUID
		)
		if err := skillRows.Scan(&s.ID, &groupID, &parentID, &s.Name, &s.Description,
			&s.CanSelfAssess, &s.CanSelfCount, &s.ScaleID); err != nil {
			return nil, err
		}
		s.SkillSetID = skillSetID
		sp := &s
		skillsByID[s.ID] = sp
		skillRowsOrdered = append(skillRowsOrdered, skillRow{sk: sp, groupID: groupID, parentID: parentID})
	}
	if err := skillRows.Err(); err != nil {
		return nil, err
	}

	roots := make([]*skill.Group, 0)
	for _, gr := range ordered {
		if gr.parent == nil {
			roots = append(roots, gr.group)
			continue
		}
		if parent, ok := groupsByID[*gr.parent]; ok {
			parent.Groups = append(parent.Groups, gr.group)
		}
	}

	for _, sr := range skillRowsOrdered {
		if sr.parentID != nil {
			if parent, ok := skillsByID[*sr.parentID]; ok {
				parent.Children = append(parent.Children, sr.sk)
				continue
			}
		}
		if sr.groupID != nil {
			if g, ok := groupsByID[*sr.groupID]; ok {
				g.Skills = append(g.Skills, sr.sk)
			}
		}
	}

	return roots, nil
}

func (r *PostgresSkillSetRepository) GetScale(ctx context.Context, scaleID uuid.UUID) (skill.Scale, error) {
	var sc skill.Scale
	row := r.db.QueryRow(ctx, `SELECT id, name FROM scales WHERE id = $1`, scaleID)
	if err := row.Scan(&sc.ID, &sc.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return skill.Scale{}, ErrScaleNotFound
		}
		return skill.Scale{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, level_id, level_name, score
		 FROM scale_levels
		 WHERE scale_id = $1
		 ORDER BY position ASC, score ASC`,
		scaleID,
	)
	if err != nil {
		return skill.Scale{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var lvl skill.ScaleLevel
		if err := rows.Scan(&lvl.ID, &lvl.Name, &lvl.LevelID, &lvl.LevelName, &lvl.Score); err != nil {
			return skill.Scale{}, err
		}
		sc.Levels = append(sc.Levels, lvl)
	}
	if err := rows.Err(); err != nil {
		return skill.Scale{}, err
	}
	return sc, nil
}

func (r *PostgresSkillSetRepository) LowestLevel(ctx context.Context, scaleID uuid.UUID) (skill.ScaleLevel, error) {
	var lvl skill.ScaleLevel
	row := r.db.QueryRow(ctx,
		`SELECT id, name, level_id, level_name, score
		 FROM scale_levels
		 WHERE scale_id = $1
		 ORDER BY score ASC
		 LIMIT 1`,
		scaleID,
	)
	if err := row.Scan(&lvl.ID, &lvl.Name, &lvl.LevelID, &lvl.LevelName, &lvl.Score); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return skill.ScaleLevel{}, ErrScaleNotFound
		}
		return skill.ScaleLevel{}, err
	}
	return lvl, nil
}
