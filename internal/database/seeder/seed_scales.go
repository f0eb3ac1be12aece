package seeder

import (
	"context"
	"fmt"

	"folio/internal/database"
)

// ScalesSeeder installs the default five-rung competency scale used by
// skill sets that do not define their own.
type ScalesSeeder struct{}

func (ScalesSeeder) Name() string { return "scales" }

func (ScalesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "scales", "id", "name", "created_at"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "scale_levels", "id", "scale_id", "name", "level_id", "level_name", "score", "position"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO scales (id, name)
		 VALUES ('00000000-0000-0000-0000-000000000001', 'Default competency scale')
		 ON CONFLICT (id) DO NOTHING`,
	)
	if err != nil {
		return err
	}

	levels := []struct {
		Name  string
		Score int
	}{
		{Name: "Novice", Score: 0},
		{Name: "Advanced beginner", Score: 25},
		{Name: "Competent", Score: 50},
		{Name: "Proficient", Score: 75},
		{Name: "Expert", Score: 100},
	}

	for i, lv := range levels {
		_, err := tx.Exec(ctx,
			`INSERT INTO scale_levels (id, scale_id, name, level_id, level_name, score, position)
			 SELECT gen_random_uuid(), '00000000-0000-0000-0000-000000000001', $1, gen_random_uuid(), $1, $2, $3
			 WHERE NOT EXISTS (
			   SELECT 1 FROM scale_levels
			   WHERE scale_id = '00000000-0000-0000-0000-000000000001' AND name = $1
			 )`,
			lv.Name, lv.Score, i,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
