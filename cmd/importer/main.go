package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"folio/internal/app"
	"folio/internal/config"
	"folio/internal/database/migration"
	"folio/internal/database/seeder"
	"folio/internal/domain/skill"
	"folio/internal/infrastructure/legacy"
	"folio/internal/repository"

	"github.com/google/uuid"
)

// legacyAssessment is the shape the legacy portfolio API serves for a
// single self-assessment. Dates arrive revived to RFC3339 by the client.
type legacyAssessment struct {
	SkillID   uuid.UUID `json:"skill_id"`
	LevelID   uuid.UUID `json:"level_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func main() {
	userEmail := flag.String("user", "", "email of the user whose legacy assessments to import")
	skillSetID := flag.String("skill-set", "", "skill set id to import assessments for")
	seedOnly := flag.Bool("seed-only", false, "run migrations and seeders, skip the legacy import")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	r := migration.Runner{Dir: "migrations"}
	if err := r.Run(migCtx, c.DB.SQLDB()); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	s := seeder.Runner{Seeders: seeder.Defaults()}
	if err := s.Run(migCtx, c.DB); err != nil {
		logger.Fatalf("seeding failed: %v", err)
	}
	logger.Printf("Importer | migrations and seeders applied")

	if *seedOnly {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := runImport(ctx, c, cfg, logger, *userEmail, *skillSetID); err != nil {
		logger.Fatalf("import failed: %v", err)
	}
}

func runImport(ctx context.Context, c *app.Container, cfg config.Config, logger *log.Logger, userEmail, rawSetID string) error {
	client := legacy.NewClient(cfg.LegacyBaseURL, logger)
	if client == nil {
		return fmt.Errorf("LEGACY_BASE_URL is not configured")
	}

	userEmail = strings.TrimSpace(userEmail)
	if userEmail == "" {
		return fmt.Errorf("provide -user")
	}
	setID, err := uuid.Parse(strings.TrimSpace(rawSetID))
	if err != nil {
		return fmt.Errorf("provide a valid -skill-set: %w", err)
	}

	u, err := c.Users.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return fmt.Errorf("resolve user %s: %w", userEmail, err)
	}

	var items []legacyAssessment
	path := fmt.Sprintf("users/%s/skill-sets/%s/assessments", u.ID, setID)
	if err := client.GetJSON(ctx, path, &items); err != nil {
		return err
	}
	if len(items) == 0 {
		logger.Printf("Importer | nothing to import | user=%s skill_set=%s", u.ID, setID)
		return nil
	}

	// Keep only the newest row per skill; the legacy API may serve the
	// full history.
	dict := make(map[uuid.UUID]*skill.SelfAssessment, len(items))
	for _, it := range items {
		prev, ok := dict[it.SkillID]
		if ok && it.CreatedAt.Before(prev.CreatedAt) {
			continue
		}
		dict[it.SkillID] = &skill.SelfAssessment{
			LevelID:   it.LevelID,
			SkillID:   it.SkillID,
			Score:     it.Score,
			CreatedAt: it.CreatedAt,
		}
	}

	repo := repository.NewPostgresSelfAssessmentRepository(c.DB)
	if err := repo.InsertBatch(ctx, u.ID, setID, dict); err != nil {
		return fmt.Errorf("insert assessments: %w", err)
	}

	if c.Cache != nil {
		if err := c.Cache.InvalidateSkillSet(ctx, setID.String()); err != nil {
			logger.Printf("Importer | cache invalidation failed | err=%v", err)
		}
	}

	logger.Printf("Importer | imported assessments | user=%s skill_set=%s count=%d", u.ID, setID, len(dict))
	return nil
}
