package usecase

import (
	"context"
	"errors"
	"time"

	"folio/internal/domain/assessment"
	"folio/internal/domain/skill"
	"folio/internal/repository"

	"github.com/google/uuid"
)

var ErrSelfAssessmentNotFound = errors.New("self assessment not found")

// AssessmentNotifier pushes a realtime event after a save or removal so
// other sessions of the same user can refresh.
type AssessmentNotifier interface {
	AssessmentsSaved(userID, skillSetID uuid.UUID, count int)
}

type AssessmentUsecase interface {
	GetSelfAssessments(ctx context.Context, userID, skillSetID uuid.UUID) (map[uuid.UUID]*skill.SelfAssessment, error)
	SaveBundle(ctx context.Context, userID, skillSetID uuid.UUID, items map[uuid.UUID]*skill.SelfAssessment) error
	RemoveSelfAssessment(ctx context.Context, userID, skillSetID, skillID uuid.UUID) error
	LowestLevel(ctx context.Context, scaleID uuid.UUID) (skill.ScaleLevel, error)
}

type Assessment struct {
	repo      repository.SelfAssessmentRepository
	skillSets repository.SkillSetRepository
	store     *assessment.Store
	cache     Cache
	cacheTTL  time.Duration
	notifier  AssessmentNotifier
	now       func() time.Time
}

func NewAssessmentUsecase(
	repo repository.SelfAssessmentRepository,
	skillSets repository.SkillSetRepository,
	store *assessment.Store,
	cache Cache,
	cacheTTL time.Duration,
	notifier AssessmentNotifier,
) *Assessment {
	return &Assessment{
		repo:      repo,
		skillSets: skillSets,
		store:     store,
		cache:     cache,
		cacheTTL:  cacheTTL,
		notifier:  notifier,
		now:       time.Now,
	}
}

// GetSelfAssessments resolves the user's merged dictionary, loading it
// from the database only on the first request per process.
func (u *Assessment) GetSelfAssessments(ctx context.Context, userID, skillSetID uuid.UUID) (map[uuid.UUID]*skill.SelfAssessment, error) {
	if userID == uuid.Nil || skillSetID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	key := assessment.Key{UserID: userID, SkillSetID: skillSetID}
	if err := u.ensureLoaded(ctx, key); err != nil {
		return nil, err
	}
	dict, _ := u.store.Get(key)
	return dict, nil
}

// ensureLoaded populates the memoized dictionary for key if it is not
// cached yet, trying redis before falling back to the database.
func (u *Assessment) ensureLoaded(ctx context.Context, key assessment.Key) error {
	if _, ok := u.store.Get(key); ok {
		return nil
	}

	cacheKey := assessmentCacheKey(key.UserID, key.SkillSetID)
	if u.cache != nil {
		var cached map[uuid.UUID]*skill.SelfAssessment
		if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			u.store.Put(key, cached)
			return nil
		}
	}

	dict, err := u.repo.FindLatestBySkillSet(ctx, key.UserID, key.SkillSetID)
	if err != nil {
		return ErrInternal
	}
	u.store.Put(key, dict)

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKey, dict, u.cacheTTL)
	}
	return nil
}

// SaveBundle persists a batch of pending self-assessments and folds
// them into the in-memory dictionary. Newer entries win; on an equal
// timestamp the incoming entry prevails.
func (u *Assessment) SaveBundle(ctx context.Context, userID, skillSetID uuid.UUID, items map[uuid.UUID]*skill.SelfAssessment) error {
	if userID == uuid.Nil || skillSetID == uuid.Nil || len(items) == 0 {
		return ErrInvalidInput
	}

	exists, err := u.skillSets.ExistsByID(ctx, skillSetID)
	if err != nil {
		return ErrInternal
	}
	if !exists {
		return ErrSkillSetNotFound
	}

	now := u.now()
	stamped := make(map[uuid.UUID]*skill.SelfAssessment, len(items))
	for skillID, sa := range items {
		if sa == nil || skillID == uuid.Nil {
			return ErrInvalidInput
		}
		c := sa.Clone()
		c.SkillID = skillID
		c.CreatedAt = now
		stamped[skillID] = c
	}

	if err := u.repo.InsertBatch(ctx, userID, skillSetID, stamped); err != nil {
		return ErrInternal
	}

	// Load the saved baseline before merging, otherwise a save ahead of
	// the first read would leave the dictionary holding only this batch.
	key := assessment.Key{UserID: userID, SkillSetID: skillSetID}
	if err := u.ensureLoaded(ctx, key); err != nil {
		return err
	}
	u.store.Update(key, stamped)

	if u.cache != nil {
		_ = u.cache.Delete(ctx, assessmentCacheKey(userID, skillSetID))
	}
	if u.notifier != nil {
		u.notifier.AssessmentsSaved(userID, skillSetID, len(stamped))
	}
	return nil
}

func (u *Assessment) RemoveSelfAssessment(ctx context.Context, userID, skillSetID, skillID uuid.UUID) error {
	if userID == uuid.Nil || skillSetID == uuid.Nil || skillID == uuid.Nil {
		return ErrInvalidInput
	}

	if err := u.repo.DeleteBySkill(ctx, userID, skillID); err != nil {
		if errors.Is(err, repository.ErrSelfAssessmentNotFound) {
			return ErrSelfAssessmentNotFound
		}
		return ErrInternal
	}

	key := assessment.Key{UserID: userID, SkillSetID: skillSetID}
	u.store.Update(key, map[uuid.UUID]*skill.SelfAssessment{skillID: nil})

	if u.cache != nil {
		_ = u.cache.Delete(ctx, assessmentCacheKey(userID, skillSetID))
	}
	if u.notifier != nil {
		u.notifier.AssessmentsSaved(userID, skillSetID, 0)
	}
	return nil
}

func assessmentCacheKey(userID, skillSetID uuid.UUID) string {
	return "assessments:" + skillSetID.String() + ":" + userID.String()
}

// LowestLevel exposes the default rung for a scale so a freshly added
// bundle item starts at the bottom of its slider.
func (u *Assessment) LowestLevel(ctx context.Context, scaleID uuid.UUID) (skill.ScaleLevel, error) {
	lv, err := u.skillSets.LowestLevel(ctx, scaleID)
	if err != nil {
		if errors.Is(err, repository.ErrScaleNotFound) {
			return skill.ScaleLevel{}, ErrScaleNotFound
		}
		return skill.ScaleLevel{}, ErrInternal
	}
	return lv, nil
}
