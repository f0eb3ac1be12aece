package usecase

import (
	"context"
	"errors"
	"time"

	"folio/internal/domain/skill"
	"folio/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrForbidden        = errors.New("forbidden")
	ErrSkillSetNotFound = errors.New("skill set not found")
	ErrScaleNotFound    = errors.New("scale not found")
)

type FilterInput struct {
	FacetIDs    []uuid.UUID
	SearchTerms []string
}

type TreeResult struct {
	Groups []*skill.Group
	Facets []skill.Facet
}

type SkillSetUsecase interface {
	ListSkillSets(ctx context.Context) ([]repository.SkillSetItem, error)
	// GetTree loads the skill tree for one skill set, attaches the
	// caller's saved assessments and applies facet and search filters.
	GetTree(ctx context.Context, userID, skillSetID uuid.UUID, in FilterInput) (TreeResult, error)
	GetScale(ctx context.Context, scaleID uuid.UUID) (skill.Scale, error)
}

// AssessmentProvider hands out the merged self-assessment dictionary
// for a user and skill set.
type AssessmentProvider interface {
	GetSelfAssessments(ctx context.Context, userID, skillSetID uuid.UUID) (map[uuid.UUID]*skill.SelfAssessment, error)
}

type SkillSet struct {
	skillSets   repository.SkillSetRepository
	facets      repository.FacetRepository
	assessments AssessmentProvider
	cache       Cache
	cacheTTL    time.Duration
}

func NewSkillSetUsecase(
	skillSets repository.SkillSetRepository,
	facets repository.FacetRepository,
	assessments AssessmentProvider,
	cache Cache,
	cacheTTL time.Duration,
) *SkillSet {
	return &SkillSet{
		skillSets:   skillSets,
		facets:      facets,
		assessments: assessments,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

func (u *SkillSet) ListSkillSets(ctx context.Context) ([]repository.SkillSetItem, error) {
	const key = "skillsets:list"

	if u.cache != nil {
		var cached []repository.SkillSetItem
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	items, err := u.skillSets.ListSkillSets(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, items, u.cacheTTL)
	}
	return items, nil
}

func (u *SkillSet) GetTree(ctx context.Context, userID, skillSetID uuid.UUID, in FilterInput) (TreeResult, error) {
	if skillSetID == uuid.Nil {
		return TreeResult{}, ErrInvalidInput
	}

	groups, err := u.loadTree(ctx, skillSetID)
	if err != nil {
		return TreeResult{}, err
	}

	facets, err := u.facets.ListBySkillSet(ctx, skillSetID)
	if err != nil {
		return TreeResult{}, ErrInternal
	}

	saved, err := u.assessments.GetSelfAssessments(ctx, userID, skillSetID)
	if err != nil {
		return TreeResult{}, err
	}
	skill.AttachAssessments(groups, saved)

	selected := make(map[uuid.UUID]bool, len(in.FacetIDs))
	for _, id := range in.FacetIDs {
		selected[id] = true
	}
	for i := range facets {
		facets[i].Selected = selected[facets[i].ID]
	}

	skill.ApplyFilters(groups, facets, in.SearchTerms)

	return TreeResult{Groups: groups, Facets: facets}, nil
}

func (u *SkillSet) GetScale(ctx context.Context, scaleID uuid.UUID) (skill.Scale, error) {
	if scaleID == uuid.Nil {
		return skill.Scale{}, ErrInvalidInput
	}
	sc, err := u.skillSets.GetScale(ctx, scaleID)
	if err != nil {
		if errors.Is(err, repository.ErrScaleNotFound) {
			return skill.Scale{}, ErrScaleNotFound
		}
		return skill.Scale{}, ErrInternal
	}
	return sc, nil
}

// loadTree serves the bare tree from cache when possible. Assessments
// are attached per caller afterwards, so only the shared structure is
// cached.
func (u *SkillSet) loadTree(ctx context.Context, skillSetID uuid.UUID) ([]*skill.Group, error) {
	key := treeCacheKey(skillSetID)

	var cached []*skill.Group
	if u.cache != nil {
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	exists, err := u.skillSets.ExistsByID(ctx, skillSetID)
	if err != nil {
		return nil, ErrInternal
	}
	if !exists {
		return nil, ErrSkillSetNotFound
	}

	groups, err := u.skillSets.GetTree(ctx, skillSetID)
	if err != nil {
		return nil, ErrInternal
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, groups, u.cacheTTL)
	}
	return groups, nil
}

func treeCacheKey(skillSetID uuid.UUID) string {
	return "skillsets:tree:" + skillSetID.String()
}
