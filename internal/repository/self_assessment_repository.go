package repository

import (
	"context"
	"errors"

	"folio/internal/database"
	"folio/internal/domain/skill"

	"github.com/google/uuid"
)

var ErrSelfAssessmentNotFound = errors.New("self assessment not found")

type SelfAssessmentRepository interface {
	// FindLatestBySkillSet returns the newest saved assessment per skill
	// for one user and skill set.
	FindLatestBySkillSet(ctx context.Context, userID, skillSetID uuid.UUID) (map[uuid.UUID]*skill.SelfAssessment, error)
	InsertBatch(ctx context.Context, userID, skillSetID uuid.UUID, items map[uuid.UUID]*skill.SelfAssessment) error
	DeleteBySkill(ctx context.Context, userID, skillID uuid.UUID) error
}

type PostgresSelfAssessmentRepository struct {
	db database.DB
}

func NewPostgresSelfAssessmentRepository(db database.DB) *PostgresSelfAssessmentRepository {
	return &PostgresSelfAssessmentRepository{db: db}
}

func (r *PostgresSelfAssessmentRepository) FindLatestBySkillSet(ctx context.Context, userID, skillSetID uuid.UUID) (map[uuid.UUID]*skill.SelfAssessment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT ON (skill_id) skill_id, level_id, score, created_at
		 FROM self_assessments
		 WHERE user_id = $1 AND skill_set_id = $2
		 ORDER BY skill_id, created_at DESC`,
		userID, skillSetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]*skill.SelfAssessment)
	for rows.Next() {
		var sa skill.SelfAssessment
		if err := rows.Scan(&sa.SkillID, &sa.LevelID, &sa.Score, &sa.CreatedAt); err != nil {
			return nil, err
		}
		cp := sa
		out[sa.SkillID] = &cp
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSelfAssessmentRepository) InsertBatch(ctx context.Context, userID, skillSetID uuid.UUID, items map[uuid.UUID]*skill.SelfAssessment) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for skillID, sa := range items {
		if sa == nil {
			continue
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO self_assessments (id, user_id, skill_id, skill_set_id, level_id, score, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), userID, skillID, skillSetID, sa.LevelID, sa.Score, sa.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresSelfAssessmentRepository) DeleteBySkill(ctx context.Context, userID, skillID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM self_assessments WHERE user_id = $1 AND skill_id = $2`,
		userID, skillID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSelfAssessmentNotFound
	}
	return nil
}
