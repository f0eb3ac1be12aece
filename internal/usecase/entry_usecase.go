package usecase

import (
	"context"
	"errors"
	"strings"

	"folio/internal/domain/skill"
	"folio/internal/repository"

	"github.com/google/uuid"
)

var ErrEntryNotFound = errors.New("entry not found")

type CreateEntryInput struct {
	Title      string
	Body       string
	SkillIDs   []uuid.UUID
	SkillSetID uuid.UUID
	// Assessments is an optional pending-edit payload attached to the
	// entry; it is flushed through the batched assessment save before
	// the entry is created.
	Assessments map[uuid.UUID]*skill.SelfAssessment
}

type UpdateEntryInput struct {
	Title       *string
	Body        *string
	SkillIDs    []uuid.UUID
	SkillSetID  uuid.UUID
	Assessments map[uuid.UUID]*skill.SelfAssessment
}

type EntryUsecase interface {
	CreateEntry(ctx context.Context, authorID uuid.UUID, in CreateEntryInput) (repository.Entry, error)
	GetEntry(ctx context.Context, callerID, entryID uuid.UUID) (repository.Entry, error)
	ListEntries(ctx context.Context, callerID uuid.UUID, limit, offset int) ([]repository.Entry, error)
	UpdateEntry(ctx context.Context, callerID, entryID uuid.UUID, in UpdateEntryInput) (repository.Entry, error)
	DeleteEntry(ctx context.Context, callerID, entryID uuid.UUID) error
	ShareEntry(ctx context.Context, callerID, entryID uuid.UUID, userIDs []uuid.UUID) error
	AddComment(ctx context.Context, callerID, entryID uuid.UUID, body string) (repository.EntryComment, error)
	ListComments(ctx context.Context, callerID, entryID uuid.UUID) ([]repository.EntryComment, error)
}

// EntryNotifier tells shared-with users about a new share.
type EntryNotifier interface {
	EntryShared(entryID uuid.UUID, userIDs []uuid.UUID)
}

// EntryAssessmentSaver flushes an entry's attached assessment payload
// through the batched save path.
type EntryAssessmentSaver interface {
	SaveBundle(ctx context.Context, userID, skillSetID uuid.UUID, items map[uuid.UUID]*skill.SelfAssessment) error
}

type EntryService struct {
	entries  repository.EntryRepository
	saver    EntryAssessmentSaver
	notifier EntryNotifier
}

func NewEntryUsecase(entries repository.EntryRepository, saver EntryAssessmentSaver, notifier EntryNotifier) *EntryService {
	return &EntryService{entries: entries, saver: saver, notifier: notifier}
}

func (u *EntryService) CreateEntry(ctx context.Context, authorID uuid.UUID, in CreateEntryInput) (repository.Entry, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return repository.Entry{}, ErrInvalidInput
	}

	skillIDs, err := u.flushAssessments(ctx, authorID, in.SkillSetID, in.Assessments, in.SkillIDs)
	if err != nil {
		return repository.Entry{}, err
	}

	created, err := u.entries.Create(ctx, repository.Entry{
		ID:       uuid.New(),
		AuthorID: authorID,
		Title:    title,
		Body:     in.Body,
		SkillIDs: skillIDs,
	})
	if err != nil {
		return repository.Entry{}, ErrInternal
	}
	return created, nil
}

// flushAssessments saves an attached assessment payload and returns the
// entry's skill list extended with the assessed skills.
func (u *EntryService) flushAssessments(
	ctx context.Context,
	authorID, skillSetID uuid.UUID,
	items map[uuid.UUID]*skill.SelfAssessment,
	skillIDs []uuid.UUID,
) ([]uuid.UUID, error) {
	if len(items) == 0 {
		return skillIDs, nil
	}
	if u.saver == nil || skillSetID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if err := u.saver.SaveBundle(ctx, authorID, skillSetID, items); err != nil {
		return nil, err
	}

	present := make(map[uuid.UUID]bool, len(skillIDs))
	for _, id := range skillIDs {
		present[id] = true
	}
	out := append([]uuid.UUID(nil), skillIDs...)
	for id := range items {
		if !present[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (u *EntryService) GetEntry(ctx context.Context, callerID, entryID uuid.UUID) (repository.Entry, error) {
	if entryID == uuid.Nil {
		return repository.Entry{}, ErrInvalidInput
	}
	e, err := u.entries.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return repository.Entry{}, ErrEntryNotFound
		}
		return repository.Entry{}, ErrInternal
	}
	return e, nil
}

func (u *EntryService) ListEntries(ctx context.Context, callerID uuid.UUID, limit, offset int) ([]repository.Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	items, err := u.entries.ListForUser(ctx, callerID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *EntryService) UpdateEntry(ctx context.Context, callerID, entryID uuid.UUID, in UpdateEntryInput) (repository.Entry, error) {
	if entryID == uuid.Nil {
		return repository.Entry{}, ErrInvalidInput
	}

	e, err := u.entries.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return repository.Entry{}, ErrEntryNotFound
		}
		return repository.Entry{}, ErrInternal
	}
	if e.AuthorID != callerID {
		return repository.Entry{}, ErrForbidden
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return repository.Entry{}, ErrInvalidInput
		}
		e.Title = title
	}
	if in.Body != nil {
		e.Body = *in.Body
	}
	if in.SkillIDs != nil {
		e.SkillIDs = in.SkillIDs
	}

	skillIDs, err := u.flushAssessments(ctx, callerID, in.SkillSetID, in.Assessments, e.SkillIDs)
	if err != nil {
		return repository.Entry{}, err
	}
	e.SkillIDs = skillIDs

	updated, err := u.entries.Update(ctx, e)
	if err != nil {
		return repository.Entry{}, ErrInternal
	}
	return updated, nil
}

func (u *EntryService) DeleteEntry(ctx context.Context, callerID, entryID uuid.UUID) error {
	if entryID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.entries.Delete(ctx, entryID, callerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrEntryNotFound):
			return ErrEntryNotFound
		case errors.Is(err, repository.ErrEntryForbidden):
			return ErrForbidden
		default:
			return ErrInternal
		}
	}
	return nil
}

func (u *EntryService) ShareEntry(ctx context.Context, callerID, entryID uuid.UUID, userIDs []uuid.UUID) error {
	if entryID == uuid.Nil || len(userIDs) == 0 {
		return ErrInvalidInput
	}

	e, err := u.entries.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return ErrInternal
	}
	if e.AuthorID != callerID {
		return ErrForbidden
	}

	// Sharing with yourself is a no-op.
	targets := make([]uuid.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		if id == uuid.Nil || id == callerID {
			continue
		}
		targets = append(targets, id)
	}
	if len(targets) == 0 {
		return nil
	}

	if err := u.entries.Share(ctx, entryID, targets); err != nil {
		return ErrInternal
	}
	if u.notifier != nil {
		u.notifier.EntryShared(entryID, targets)
	}
	return nil
}

func (u *EntryService) AddComment(ctx context.Context, callerID, entryID uuid.UUID, body string) (repository.EntryComment, error) {
	body = strings.TrimSpace(body)
	if entryID == uuid.Nil || body == "" {
		return repository.EntryComment{}, ErrInvalidInput
	}

	if _, err := u.entries.GetByID(ctx, entryID); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return repository.EntryComment{}, ErrEntryNotFound
		}
		return repository.EntryComment{}, ErrInternal
	}

	c, err := u.entries.AddComment(ctx, repository.EntryComment{
		ID:       uuid.New(),
		EntryID:  entryID,
		AuthorID: callerID,
		Body:     body,
	})
	if err != nil {
		return repository.EntryComment{}, ErrInternal
	}
	return c, nil
}

func (u *EntryService) ListComments(ctx context.Context, callerID, entryID uuid.UUID) ([]repository.EntryComment, error) {
	if entryID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	items, err := u.entries.ListComments(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, ErrInternal
	}
	return items, nil
}
