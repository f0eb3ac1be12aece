package assessment

import (
	"context"
	"errors"
	"time"

	"folio/internal/domain/skill"

	"github.com/google/uuid"
)

var ErrNilSkill = errors.New("nil skill")

// ScaleResolver fetches the lowest rung of a skill's assessment scale when a
// skill joins the bundle with no value of its own.
type ScaleResolver interface {
	LowestLevel(ctx context.Context, scaleID uuid.UUID) (skill.ScaleLevel, error)
}

// Bundle stages pending self-assessment edits for a skill set view until the
// user saves them in one batch. It holds references into the same tree the
// caller renders, so bundle mutation is visible in the tree immediately.
// A bundle belongs to a single request flow and is not safe for concurrent
// use.
type Bundle struct {
	items map[uuid.UUID]*skill.Skill
	order []uuid.UUID

	subscribers []func()

	now func() time.Time
}

func NewBundle() *Bundle {
	return &Bundle{
		items: make(map[uuid.UUID]*skill.Skill),
		now:   time.Now,
	}
}

// Subscribe registers a callback invoked synchronously after every bundle
// mutation, in registration order.
func (b *Bundle) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	b.subscribers = append(b.subscribers, fn)
}

func (b *Bundle) notify() {
	for _, fn := range b.subscribers {
		fn()
	}
}

// AddSkill stages a pending edit for s. A skill already in the bundle is left
// untouched. When sa is nil the skill's current active value is kept; a skill
// with no value at all gets the lowest rung of its scale.
func (b *Bundle) AddSkill(ctx context.Context, s *skill.Skill, sa *skill.SelfAssessment, scales ScaleResolver) error {
	if s == nil {
		return ErrNilSkill
	}
	if _, ok := b.items[s.ID]; ok {
		return nil
	}

	if s.Assessment == nil {
		s.Assessment = &skill.Assessment{Skill: s}
	}

	if sa == nil {
		sa = s.Assessment.Active
	}
	if sa == nil {
		if scales == nil {
			return errors.New("no assessment and no scale resolver")
		}
		lvl, err := scales.LowestLevel(ctx, s.ScaleID)
		if err != nil {
			return err
		}
		sa = &skill.SelfAssessment{
			LevelID:   lvl.LevelID,
			SkillID:   s.ID,
			Score:     lvl.Score,
			CreatedAt: b.now().UTC(),
		}
	}

	s.Assessment.Active = sa
	b.items[s.ID] = s
	b.order = append(b.order, s.ID)
	b.notify()
	return nil
}

// RemoveSkill drops the pending edit and restores the skill's active value to
// a fresh copy of the server-confirmed baseline.
func (b *Bundle) RemoveSkill(s *skill.Skill) {
	if s == nil {
		return
	}
	if _, ok := b.items[s.ID]; !ok {
		return
	}
	delete(b.items, s.ID)
	for i, id := range b.order {
		if id == s.ID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	if s.Assessment != nil {
		s.Assessment.Active = s.Assessment.Prevailing.Clone()
	}
	b.notify()
}

// ItemSource selects which skills SetItems stages. With IDs set, each listed
// skill is staged with its value looked up in Saved; otherwise every skill
// keyed in Saved is staged with that value.
type ItemSource struct {
	IDs   []uuid.UUID
	Saved map[uuid.UUID]*skill.SelfAssessment
}

// SetItems resets the bundle and repopulates it by walking the tree.
func (b *Bundle) SetItems(ctx context.Context, groups []*skill.Group, src ItemSource, scales ScaleResolver) error {
	b.items = make(map[uuid.UUID]*skill.Skill)
	b.order = nil

	wanted := make(map[uuid.UUID]struct{}, len(src.IDs))
	for _, id := range src.IDs {
		wanted[id] = struct{}{}
	}

	var firstErr error
	skill.WalkSkills(groups, func(s *skill.Skill) {
		if firstErr != nil {
			return
		}
		var sa *skill.SelfAssessment
		if len(src.IDs) > 0 {
			if _, ok := wanted[s.ID]; !ok {
				return
			}
			sa = src.Saved[s.ID]
		} else {
			var ok bool
			sa, ok = src.Saved[s.ID]
			if !ok {
				return
			}
		}
		if err := b.AddSkill(ctx, s, sa.Clone(), scales); err != nil {
			firstErr = err
		}
	})
	if firstErr != nil {
		return firstErr
	}
	b.notify()
	return nil
}

// Reset clears the bundle without touching the staged skills.
func (b *Bundle) Reset() {
	if len(b.items) == 0 {
		return
	}
	b.items = make(map[uuid.UUID]*skill.Skill)
	b.order = nil
	b.notify()
}

// Snapshot returns the staged skillID -> active assessment mapping for
// persistence.
func (b *Bundle) Snapshot() map[uuid.UUID]*skill.SelfAssessment {
	out := make(map[uuid.UUID]*skill.SelfAssessment, len(b.items))
	for id, s := range b.items {
		if s.Assessment == nil {
			continue
		}
		out[id] = s.Assessment.Active
	}
	return out
}

func (b *Bundle) Size() int {
	return len(b.items)
}

func (b *Bundle) Contains(id uuid.UUID) bool {
	_, ok := b.items[id]
	return ok
}

// SkillIDs returns staged skill ids in insertion order.
func (b *Bundle) SkillIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(b.order))
	copy(out, b.order)
	return out
}
