package usecase

import (
	"context"
	"errors"
	"testing"

	"folio/internal/domain/skill"
	"folio/internal/repository"

	"github.com/google/uuid"
)

type mockEntryRepo struct {
	entries  map[uuid.UUID]repository.Entry
	shared   []uuid.UUID
	comments []repository.EntryComment
}

func (m *mockEntryRepo) Create(_ context.Context, e repository.Entry) (repository.Entry, error) {
	if m.entries == nil {
		m.entries = map[uuid.UUID]repository.Entry{}
	}
	m.entries[e.ID] = e
	return e, nil
}

func (m *mockEntryRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return repository.Entry{}, repository.ErrEntryNotFound
	}
	return e, nil
}

func (m *mockEntryRepo) ListForUser(context.Context, uuid.UUID, int, int) ([]repository.Entry, error) {
	out := make([]repository.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEntryRepo) Update(_ context.Context, e repository.Entry) (repository.Entry, error) {
	m.entries[e.ID] = e
	return e, nil
}

func (m *mockEntryRepo) Delete(_ context.Context, id, authorID uuid.UUID) error {
	e, ok := m.entries[id]
	if !ok {
		return repository.ErrEntryNotFound
	}
	if e.AuthorID != authorID {
		return repository.ErrEntryForbidden
	}
	delete(m.entries, id)
	return nil
}

func (m *mockEntryRepo) Share(_ context.Context, _ uuid.UUID, userIDs []uuid.UUID) error {
	m.shared = append(m.shared, userIDs...)
	return nil
}

func (m *mockEntryRepo) AddComment(_ context.Context, c repository.EntryComment) (repository.EntryComment, error) {
	m.comments = append(m.comments, c)
	return c, nil
}

func (m *mockEntryRepo) ListComments(context.Context, uuid.UUID) ([]repository.EntryComment, error) {
	return m.comments, nil
}

type mockAssessmentSaver struct {
	userID     uuid.UUID
	skillSetID uuid.UUID
	items      map[uuid.UUID]*skill.SelfAssessment
	calls      int
	err        error
}

func (m *mockAssessmentSaver) SaveBundle(_ context.Context, userID, skillSetID uuid.UUID, items map[uuid.UUID]*skill.SelfAssessment) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	m.userID = userID
	m.skillSetID = skillSetID
	m.items = items
	return nil
}

type mockEntryNotifier struct {
	entryID uuid.UUID
	targets []uuid.UUID
}

func (m *mockEntryNotifier) EntryShared(entryID uuid.UUID, userIDs []uuid.UUID) {
	m.entryID = entryID
	m.targets = userIDs
}

func TestEntryUsecase_CreateEntry_RequiresTitle(t *testing.T) {
	uc := NewEntryUsecase(&mockEntryRepo{}, nil, nil)
	_, err := uc.CreateEntry(context.Background(), uuid.New(), CreateEntryInput{Title: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEntryUsecase_CreateEntry_FlushesAttachedAssessments(t *testing.T) {
	author, setID := uuid.New(), uuid.New()
	listedSkill, assessedSkill := uuid.New(), uuid.New()
	repo := &mockEntryRepo{}
	saver := &mockAssessmentSaver{}
	uc := NewEntryUsecase(repo, saver, nil)

	e, err := uc.CreateEntry(context.Background(), author, CreateEntryInput{
		Title:      "Deployment week",
		SkillIDs:   []uuid.UUID{listedSkill},
		SkillSetID: setID,
		Assessments: map[uuid.UUID]*skill.SelfAssessment{
			assessedSkill: {Score: 3, LevelID: uuid.New()},
		},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if saver.calls != 1 || saver.userID != author || saver.skillSetID != setID {
		t.Fatalf("attached payload not flushed through the batched save: %+v", saver)
	}
	if saver.items[assessedSkill] == nil {
		t.Fatalf("assessed skill missing from flushed payload")
	}
	if len(e.SkillIDs) != 2 {
		t.Fatalf("expected the assessed skill to join the entry's skill list, got %v", e.SkillIDs)
	}
}

func TestEntryUsecase_CreateEntry_AssessmentsNeedSkillSet(t *testing.T) {
	uc := NewEntryUsecase(&mockEntryRepo{}, &mockAssessmentSaver{}, nil)
	_, err := uc.CreateEntry(context.Background(), uuid.New(), CreateEntryInput{
		Title: "Deployment week",
		Assessments: map[uuid.UUID]*skill.SelfAssessment{
			uuid.New(): {Score: 3},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEntryUsecase_CreateEntry_SaveFailureAborts(t *testing.T) {
	repo := &mockEntryRepo{}
	saver := &mockAssessmentSaver{err: ErrSkillSetNotFound}
	uc := NewEntryUsecase(repo, saver, nil)

	_, err := uc.CreateEntry(context.Background(), uuid.New(), CreateEntryInput{
		Title:      "Deployment week",
		SkillSetID: uuid.New(),
		Assessments: map[uuid.UUID]*skill.SelfAssessment{
			uuid.New(): {Score: 3},
		},
	})
	if !errors.Is(err, ErrSkillSetNotFound) {
		t.Fatalf("expected ErrSkillSetNotFound, got %v", err)
	}
	if len(repo.entries) != 0 {
		t.Fatalf("entry created despite failed assessment save")
	}
}

func TestEntryUsecase_UpdateEntry_ForbiddenForNonAuthor(t *testing.T) {
	author := uuid.New()
	repo := &mockEntryRepo{}
	uc := NewEntryUsecase(repo, nil, nil)

	e, err := uc.CreateEntry(context.Background(), author, CreateEntryInput{Title: "Sprint retro"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	title := "Edited"
	_, err = uc.UpdateEntry(context.Background(), uuid.New(), e.ID, UpdateEntryInput{Title: &title})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestEntryUsecase_ShareEntry_SkipsSelfAndNotifies(t *testing.T) {
	author := uuid.New()
	repo := &mockEntryRepo{}
	notifier := &mockEntryNotifier{}
	uc := NewEntryUsecase(repo, nil, notifier)

	e, err := uc.CreateEntry(context.Background(), author, CreateEntryInput{Title: "Placement log"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	target := uuid.New()
	err = uc.ShareEntry(context.Background(), author, e.ID, []uuid.UUID{author, uuid.Nil, target})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(repo.shared) != 1 || repo.shared[0] != target {
		t.Fatalf("expected only the target to be shared with, got %v", repo.shared)
	}
	if notifier.entryID != e.ID || len(notifier.targets) != 1 {
		t.Fatalf("expected notification for the share, got %+v", notifier)
	}
}

func TestEntryUsecase_ShareEntry_OnlySelfIsNoop(t *testing.T) {
	author := uuid.New()
	repo := &mockEntryRepo{}
	notifier := &mockEntryNotifier{}
	uc := NewEntryUsecase(repo, nil, notifier)

	e, _ := uc.CreateEntry(context.Background(), author, CreateEntryInput{Title: "Notes"})
	if err := uc.ShareEntry(context.Background(), author, e.ID, []uuid.UUID{author}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.shared) != 0 {
		t.Fatalf("expected no shares, got %v", repo.shared)
	}
	if notifier.entryID != uuid.Nil {
		t.Fatalf("expected no notification")
	}
}

func TestEntryUsecase_AddComment_UnknownEntry(t *testing.T) {
	uc := NewEntryUsecase(&mockEntryRepo{}, nil, nil)
	_, err := uc.AddComment(context.Background(), uuid.New(), uuid.New(), "nice work")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryUsecase_DeleteEntry_NonAuthor(t *testing.T) {
	author := uuid.New()
	repo := &mockEntryRepo{}
	uc := NewEntryUsecase(repo, nil, nil)

	e, _ := uc.CreateEntry(context.Background(), author, CreateEntryInput{Title: "Keep out"})
	if err := uc.DeleteEntry(context.Background(), uuid.New(), e.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := uc.DeleteEntry(context.Background(), author, e.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
