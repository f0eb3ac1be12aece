package assessment

import (
	"context"
	"testing"
	"time"

	"folio/internal/domain/skill"

	"github.com/google/uuid"
)

type stubScales struct {
	lowest skill.ScaleLevel
	err    error
	calls  int
}

func (s *stubScales) LowestLevel(context.Context, uuid.UUID) (skill.ScaleLevel, error) {
	s.calls++
	return s.lowest, s.err
}

func newAssessedSkill(score int) *skill.Skill {
	s := &skill.Skill{ID: uuid.New(), Name: "Teamwork", CanSelfAssess: true, ScaleID: uuid.New()}
	prev := &skill.SelfAssessment{LevelID: uuid.New(), SkillID: s.ID, Score: score, CreatedAt: time.Now().UTC()}
	s.Assessment = &skill.Assessment{Skill: s, Prevailing: prev, Active: prev.Clone()}
	return s
}

func TestBundle_AddSkill_NoOpWhenPresent(t *testing.T) {
	b := NewBundle()
	s := newAssessedSkill(40)

	if err := b.AddSkill(context.Background(), s, nil, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	before := s.Assessment.Active
	if err := b.AddSkill(context.Background(), s, &skill.SelfAssessment{Score: 99}, nil); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if b.Size() != 1 {
		t.Fatalf("expected size 1, got %d", b.Size())
	}
	if s.Assessment.Active != before {
		t.Fatalf("second add must not replace the staged value")
	}
}

func TestBundle_AddSkill_ResolvesLowestRungWhenUnassessed(t *testing.T) {
	b := NewBundle()
	s := &skill.Skill{ID: uuid.New(), Name: "New Skill", CanSelfAssess: true, ScaleID: uuid.New()}
	s.Assessment = &skill.Assessment{Skill: s}
	scales := &stubScales{lowest: skill.ScaleLevel{LevelID: uuid.New(), Score: 15}}

	if err := b.AddSkill(context.Background(), s, nil, scales); err != nil {
		t.Fatalf("add: %v", err)
	}
	if scales.calls != 1 {
		t.Fatalf("expected one scale lookup, got %d", scales.calls)
	}
	got := s.Assessment.Active
	if got == nil || got.Score != 15 || got.SkillID != s.ID {
		t.Fatalf("lowest rung not assigned: %+v", got)
	}
}

func TestBundle_RemoveSkill_RestoresPrevailingCopy(t *testing.T) {
	b := NewBundle()
	s := newAssessedSkill(80)
	edit := &skill.SelfAssessment{LevelID: uuid.New(), SkillID: s.ID, Score: 160, CreatedAt: time.Now().UTC()}

	if err := b.AddSkill(context.Background(), s, edit, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.Assessment.Active.Score != 160 {
		t.Fatalf("staged edit not applied to the shared tree")
	}

	b.RemoveSkill(s)

	if b.Contains(s.ID) {
		t.Fatalf("skill still in bundle after remove")
	}
	active := s.Assessment.Active
	if active == nil || active.Score != 80 {
		t.Fatalf("active not restored to prevailing value: %+v", active)
	}
	if active == s.Assessment.Prevailing {
		t.Fatalf("restored active must be a copy, not an alias of prevailing")
	}
}

func TestBundle_SetItems_FromIDListAndFromMap(t *testing.T) {
	a := newAssessedSkill(20)
	c := newAssessedSkill(60)
	tree := []*skill.Group{{ID: uuid.New(), Name: "Core", Skills: []*skill.Skill{a, c}}}

	saved := map[uuid.UUID]*skill.SelfAssessment{
		a.ID: {LevelID: uuid.New(), SkillID: a.ID, Score: 110, CreatedAt: time.Now().UTC()},
	}

	b := NewBundle()
	if err := b.SetItems(context.Background(), tree, ItemSource{IDs: []uuid.UUID{a.ID}, Saved: saved}, nil); err != nil {
		t.Fatalf("set items by id: %v", err)
	}
	if b.Size() != 1 || !b.Contains(a.ID) {
		t.Fatalf("expected only the listed skill staged, size=%d", b.Size())
	}
	if a.Assessment.Active.Score != 110 {
		t.Fatalf("looked-up value not applied")
	}

	if err := b.SetItems(context.Background(), tree, ItemSource{Saved: saved}, nil); err != nil {
		t.Fatalf("set items by map: %v", err)
	}
	if b.Size() != 1 || !b.Contains(a.ID) || b.Contains(c.ID) {
		t.Fatalf("map-driven repopulation staged the wrong skills")
	}
}

func TestBundle_SnapshotAndNotify(t *testing.T) {
	b := NewBundle()
	var fired int
	b.Subscribe(func() { fired++ })

	s := newAssessedSkill(50)
	if err := b.AddSkill(context.Background(), s, nil, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if fired != 1 {
		t.Fatalf("expected one bundle-changed notification, got %d", fired)
	}

	snap := b.Snapshot()
	if sa, ok := snap[s.ID]; !ok || sa.Score != 50 {
		t.Fatalf("snapshot missing staged value: %+v", snap)
	}

	ids := b.SkillIDs()
	if len(ids) != 1 || ids[0] != s.ID {
		t.Fatalf("unexpected skill ids %v", ids)
	}

	b.RemoveSkill(s)
	if fired != 2 {
		t.Fatalf("remove should notify, fired=%d", fired)
	}
}
