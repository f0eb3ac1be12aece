package seeder

import (
	"context"
	"fmt"

	"folio/internal/database"
)

// SkillSetsSeeder installs a small demo skill set so a fresh deployment has
// something to browse before real data is imported. IDs are fixed, so the
// seeder is safe to run repeatedly.
type SkillSetsSeeder struct{}

func (SkillSetsSeeder) Name() string { return "skill_sets" }

const (
	demoSetID   = "00000000-0000-0000-0000-000000000101"
	demoScaleID = "00000000-0000-0000-0000-000000000001"
)

func (SkillSetsSeeder) Run(ctx context.Context, db database.DB) error {
	for table, cols := range map[string][]string{
		"skill_sets":          {"id", "name", "description"},
		"skill_groups":        {"id", "skill_set_id", "parent_group_id", "name", "position"},
		"skills":              {"id", "skill_set_id", "group_id", "parent_skill_id", "name", "scale_id", "position"},
		"skill_filters":       {"id", "skill_set_id", "name"},
		"skill_filter_facets": {"id", "skill_filter_id", "name"},
		"facet_skills":        {"facet_id", "skill_id"},
	} {
		if err := EnsureTableColumns(ctx, db, table, cols...); err != nil {
			return err
		}
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO skill_sets (id, name, description)
		 VALUES ($1, 'Software Engineering', 'Demo skill set covering core engineering practice')
		 ON CONFLICT (id) DO NOTHING`,
		demoSetID,
	)
	if err != nil {
		return err
	}

	groups := []struct {
		ID     string
		Parent string
		Name   string
	}{
		{ID: "00000000-0000-0000-0000-000000000201", Name: "Development"},
		{ID: "00000000-0000-0000-0000-000000000202", Name: "Operations"},
		{ID: "00000000-0000-0000-0000-000000000203", Parent: "00000000-0000-0000-0000-000000000201", Name: "Testing"},
	}
	for i, g := range groups {
		var parent any
		if g.Parent != "" {
			parent = g.Parent
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO skill_groups (id, skill_set_id, parent_group_id, name, position)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			g.ID, demoSetID, parent, g.Name, i,
		)
		if err != nil {
			return err
		}
	}

	skills := []struct {
		ID     string
		Group  string
		Parent string
		Name   string
	}{
		{ID: "00000000-0000-0000-0000-000000000301", Group: "00000000-0000-0000-0000-000000000201", Name: "Code review"},
		{ID: "00000000-0000-0000-0000-000000000302", Group: "00000000-0000-0000-0000-000000000201", Name: "API design"},
		{ID: "00000000-0000-0000-0000-000000000303", Group: "00000000-0000-0000-0000-000000000203", Name: "Unit testing"},
		{ID: "00000000-0000-0000-0000-000000000304", Parent: "00000000-0000-0000-0000-000000000303", Name: "Test doubles"},
		{ID: "00000000-0000-0000-0000-000000000305", Group: "00000000-0000-0000-0000-000000000202", Name: "Incident response"},
		{ID: "00000000-0000-0000-0000-000000000306", Group: "00000000-0000-0000-0000-000000000202", Name: "Capacity planning"},
	}
	for i, s := range skills {
		var group, parent any
		if s.Group != "" {
			group = s.Group
		}
		if s.Parent != "" {
			parent = s.Parent
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO skills (id, skill_set_id, group_id, parent_skill_id, name, scale_id, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO NOTHING`,
			s.ID, demoSetID, group, parent, s.Name, demoScaleID, i,
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO skill_filters (id, skill_set_id, name)
		 VALUES ('00000000-0000-0000-0000-000000000401', $1, 'Focus area')
		 ON CONFLICT (id) DO NOTHING`,
		demoSetID,
	)
	if err != nil {
		return err
	}

	facets := []struct {
		ID     string
		Name   string
		Skills []string
	}{
		{
			ID:   "00000000-0000-0000-0000-000000000402",
			Name: "Building",
			Skills: []string{
				"00000000-0000-0000-0000-000000000301",
				"00000000-0000-0000-0000-000000000302",
				"00000000-0000-0000-0000-000000000303",
			},
		},
		{
			ID:   "00000000-0000-0000-0000-000000000403",
			Name: "Running",
			Skills: []string{
				"00000000-0000-0000-0000-000000000305",
				"00000000-0000-0000-0000-000000000306",
			},
		},
	}
	for _, f := range facets {
		_, err := tx.Exec(ctx,
			`INSERT INTO skill_filter_facets (id, skill_filter_id, name)
			 VALUES ($1, '00000000-0000-0000-0000-000000000401', $2)
			 ON CONFLICT (id) DO NOTHING`,
			f.ID, f.Name,
		)
		if err != nil {
			return err
		}
		for _, skillID := range f.Skills {
			_, err := tx.Exec(ctx,
				`INSERT INTO facet_skills (facet_id, skill_id)
				 VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				f.ID, skillID,
			)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
