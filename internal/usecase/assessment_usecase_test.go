package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"folio/internal/domain/assessment"
	"folio/internal/domain/skill"
	"folio/internal/repository"

	"github.com/google/uuid"
)

type mockSelfAssessmentRepo struct {
	dict      map[uuid.UUID]*skill.SelfAssessment
	findCalls int
	inserted  map[uuid.UUID]*skill.SelfAssessment
	deleteErr error
	findErr   error
	insertErr error
}

func (m *mockSelfAssessmentRepo) FindLatestBySkillSet(context.Context, uuid.UUID, uuid.UUID) (map[uuid.UUID]*skill.SelfAssessment, error) {
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make(map[uuid.UUID]*skill.SelfAssessment, len(m.dict))
	for k, v := range m.dict {
		out[k] = v.Clone()
	}
	return out, nil
}

func (m *mockSelfAssessmentRepo) InsertBatch(_ context.Context, _, _ uuid.UUID, items map[uuid.UUID]*skill.SelfAssessment) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = items
	return nil
}

func (m *mockSelfAssessmentRepo) DeleteBySkill(_ context.Context, _ uuid.UUID, skillID uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.dict, skillID)
	return nil
}

type mockSkillSetRepo struct {
	exists bool
	lowest skill.ScaleLevel
	scale  skill.Scale
	groups []*skill.Group
	items  []repository.SkillSetItem
}

func (m *mockSkillSetRepo) ListSkillSets(context.Context) ([]repository.SkillSetItem, error) {
	return m.items, nil
}
func (m *mockSkillSetRepo) ExistsByID(context.Context, uuid.UUID) (bool, error) {
	return m.exists, nil
}
func (m *mockSkillSetRepo) GetTree(context.Context, uuid.UUID) ([]*skill.Group, error) {
	return m.groups, nil
}
func (m *mockSkillSetRepo) GetScale(context.Context, uuid.UUID) (skill.Scale, error) {
	return m.scale, nil
}
func (m *mockSkillSetRepo) LowestLevel(context.Context, uuid.UUID) (skill.ScaleLevel, error) {
	return m.lowest, nil
}

type mockNotifier struct {
	calls int
	last  int
}

func (m *mockNotifier) AssessmentsSaved(_, _ uuid.UUID, count int) {
	m.calls++
	m.last = count
}

func newAssessmentUsecase(repo *mockSelfAssessmentRepo, sets *mockSkillSetRepo, n *mockNotifier) *Assessment {
	// A typed nil pointer would defeat the usecase's nil-interface check.
	var notifier AssessmentNotifier
	if n != nil {
		notifier = n
	}
	return NewAssessmentUsecase(repo, sets, assessment.NewStore(), nil, 0, notifier)
}

func TestAssessmentUsecase_GetSelfAssessments_LoadsOnce(t *testing.T) {
	skillID := uuid.New()
	repo := &mockSelfAssessmentRepo{dict: map[uuid.UUID]*skill.SelfAssessment{
		skillID: {SkillID: skillID, Score: 3, CreatedAt: time.Now()},
	}}
	uc := newAssessmentUsecase(repo, &mockSkillSetRepo{exists: true}, nil)

	userID, setID := uuid.New(), uuid.New()
	for i := 0; i < 3; i++ {
		dict, err := uc.GetSelfAssessments(context.Background(), userID, setID)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(dict) != 1 || dict[skillID] == nil {
			t.Fatalf("expected 1 assessment, got %v", dict)
		}
	}
	if repo.findCalls != 1 {
		t.Fatalf("expected 1 repository load, got %d", repo.findCalls)
	}
}

func TestAssessmentUsecase_GetSelfAssessments_ReturnsCopies(t *testing.T) {
	skillID := uuid.New()
	repo := &mockSelfAssessmentRepo{dict: map[uuid.UUID]*skill.SelfAssessment{
		skillID: {SkillID: skillID, Score: 3, CreatedAt: time.Now()},
	}}
	uc := newAssessmentUsecase(repo, &mockSkillSetRepo{exists: true}, nil)

	userID, setID := uuid.New(), uuid.New()
	first, _ := uc.GetSelfAssessments(context.Background(), userID, setID)
	first[skillID].Score = 99

	second, _ := uc.GetSelfAssessments(context.Background(), userID, setID)
	if second[skillID].Score != 3 {
		t.Fatalf("caller mutation leaked into store: score=%d", second[skillID].Score)
	}
}

func TestAssessmentUsecase_SaveBundle_StampsAndMerges(t *testing.T) {
	skillID := uuid.New()
	repo := &mockSelfAssessmentRepo{dict: map[uuid.UUID]*skill.SelfAssessment{}}
	notifier := &mockNotifier{}
	uc := newAssessmentUsecase(repo, &mockSkillSetRepo{exists: true}, notifier)

	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	userID, setID := uuid.New(), uuid.New()
	err := uc.SaveBundle(context.Background(), userID, setID, map[uuid.UUID]*skill.SelfAssessment{
		skillID: {Score: 4, LevelID: uuid.New()},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got := repo.inserted[skillID]
	if got == nil || !got.CreatedAt.Equal(fixed) || got.SkillID != skillID {
		t.Fatalf("batch not stamped: %+v", got)
	}
	if notifier.calls != 1 || notifier.last != 1 {
		t.Fatalf("expected one notification for one item, got calls=%d last=%d", notifier.calls, notifier.last)
	}

	dict, err := uc.GetSelfAssessments(context.Background(), userID, setID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if dict[skillID] == nil || dict[skillID].Score != 4 {
		t.Fatalf("saved bundle not visible in dictionary: %+v", dict[skillID])
	}
	if repo.findCalls != 1 {
		t.Fatalf("expected save to retain the memoized dictionary, loads=%d", repo.findCalls)
	}
}

func TestAssessmentUsecase_SaveBundle_BeforeFirstReadKeepsBaseline(t *testing.T) {
	savedSkill, otherSkill := uuid.New(), uuid.New()
	repo := &mockSelfAssessmentRepo{dict: map[uuid.UUID]*skill.SelfAssessment{
		otherSkill: {SkillID: otherSkill, Score: 2, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}}
	uc := newAssessmentUsecase(repo, &mockSkillSetRepo{exists: true}, nil)

	userID, setID := uuid.New(), uuid.New()
	err := uc.SaveBundle(context.Background(), userID, setID, map[uuid.UUID]*skill.SelfAssessment{
		savedSkill: {Score: 4, LevelID: uuid.New()},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	dict, err := uc.GetSelfAssessments(context.Background(), userID, setID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if dict[otherSkill] == nil || dict[otherSkill].Score != 2 {
		t.Fatalf("previously saved assessment dropped: %+v", dict[otherSkill])
	}
	if dict[savedSkill] == nil || dict[savedSkill].Score != 4 {
		t.Fatalf("saved bundle not visible in dictionary: %+v", dict[savedSkill])
	}
	if repo.findCalls != 1 {
		t.Fatalf("expected one baseline load, got %d", repo.findCalls)
	}
}

func TestAssessmentUsecase_RemoveSelfAssessment_BeforeFirstRead(t *testing.T) {
	removed, kept := uuid.New(), uuid.New()
	repo := &mockSelfAssessmentRepo{dict: map[uuid.UUID]*skill.SelfAssessment{
		removed: {SkillID: removed, Score: 1, CreatedAt: time.Now()},
		kept:    {SkillID: kept, Score: 3, CreatedAt: time.Now()},
	}}
	uc := newAssessmentUsecase(repo, &mockSkillSetRepo{exists: true}, nil)

	userID, setID := uuid.New(), uuid.New()
	if err := uc.RemoveSelfAssessment(context.Background(), userID, setID, removed); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	dict, err := uc.GetSelfAssessments(context.Background(), userID, setID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := dict[removed]; ok {
		t.Fatalf("removed assessment still in dictionary")
	}
	if dict[kept] == nil || dict[kept].Score != 3 {
		t.Fatalf("unrelated assessment dropped by removal: %+v", dict[kept])
	}
}

func TestAssessmentUsecase_SaveBundle_UnknownSkillSet(t *testing.T) {
	uc := newAssessmentUsecase(&mockSelfAssessmentRepo{}, &mockSkillSetRepo{exists: false}, nil)
	err := uc.SaveBundle(context.Background(), uuid.New(), uuid.New(), map[uuid.UUID]*skill.SelfAssessment{
		uuid.New(): {Score: 1},
	})
	if !errors.Is(err, ErrSkillSetNotFound) {
		t.Fatalf("expected ErrSkillSetNotFound, got %v", err)
	}
}

func TestAssessmentUsecase_SaveBundle_EmptyInput(t *testing.T) {
	uc := newAssessmentUsecase(&mockSelfAssessmentRepo{}, &mockSkillSetRepo{exists: true}, nil)
	err := uc.SaveBundle(context.Background(), uuid.New(), uuid.New(), nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAssessmentUsecase_RemoveSelfAssessment(t *testing.T) {
	skillID := uuid.New()
	repo := &mockSelfAssessmentRepo{dict: map[uuid.UUID]*skill.SelfAssessment{
		skillID: {SkillID: skillID, Score: 2, CreatedAt: time.Now()},
	}}
	uc := newAssessmentUsecase(repo, &mockSkillSetRepo{exists: true}, nil)

	userID, setID := uuid.New(), uuid.New()
	if _, err := uc.GetSelfAssessments(context.Background(), userID, setID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if err := uc.RemoveSelfAssessment(context.Background(), userID, setID, skillID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	dict, _ := uc.GetSelfAssessments(context.Background(), userID, setID)
	if _, ok := dict[skillID]; ok {
		t.Fatalf("expected assessment to be removed from dictionary")
	}
}

func TestAssessmentUsecase_RemoveSelfAssessment_NotFound(t *testing.T) {
	repo := &mockSelfAssessmentRepo{deleteErr: repository.ErrSelfAssessmentNotFound}
	uc := newAssessmentUsecase(repo, &mockSkillSetRepo{exists: true}, nil)
	err := uc.RemoveSelfAssessment(context.Background(), uuid.New(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrSelfAssessmentNotFound) {
		t.Fatalf("expected ErrSelfAssessmentNotFound, got %v", err)
	}
}
