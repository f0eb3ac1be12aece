package skill

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SelfAssessment is a user-submitted score against a skill at a point in
// time. CreatedAt drives most-recent-wins reconciliation at second
// granularity.
type SelfAssessment struct {
	LevelID   uuid.UUID `json:"level_id"`
	SkillID   uuid.UUID `json:"skill_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *SelfAssessment) Clone() *SelfAssessment {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

type ScaleLevel struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	LevelID   uuid.UUID `json:"level_id"`
	LevelName string    `json:"level_name"`
	Score     int       `json:"score"`
}

// Scale holds the ordered rungs of a self-assessment scale, lowest score
// first.
type Scale struct {
	ID     uuid.UUID    `json:"id"`
	Name   string       `json:"name"`
	Levels []ScaleLevel `json:"levels"`
}

func (s Scale) Lowest() (ScaleLevel, bool) {
	if len(s.Levels) == 0 {
		return ScaleLevel{}, false
	}
	lowest := s.Levels[0]
	for _, lvl := range s.Levels[1:] {
		if lvl.Score < lowest.Score {
			lowest = lvl
		}
	}
	return lowest, true
}

// LevelColor maps a rung score onto the continuous hue ramp used by the
// clients.
func LevelColor(score int) string {
	return fmt.Sprintf("hsl(%d, 100%%, 40%%)", score)
}

// Assessment is the transient per-skill state bound into a tree at load
// time. Active is always a deep copy and never aliases Prevailing, so
// pending edits cannot corrupt the saved baseline.
type Assessment struct {
	Skill      *Skill          `json:"-"`
	Hidden     bool            `json:"hidden"`
	Prevailing *SelfAssessment `json:"prevailing_self_assessment,omitempty"`
	Active     *SelfAssessment `json:"active_self_assessment,omitempty"`
}

type Skill struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	Children      []*Skill    `json:"children,omitempty"`
	CanSelfAssess bool        `json:"can_self_assess"`
	CanSelfCount  bool        `json:"can_self_count"`
	SkillSetID    uuid.UUID   `json:"skill_set_id"`
	ScaleID       uuid.UUID   `json:"scale_id"`
	Assessment    *Assessment `json:"assessment,omitempty"`
}

// Group is one node of the skill-set tree. Groups and skills are immutable
// after fetch; only Expanded and the attached assessments change.
type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Groups      []*Group  `json:"groups,omitempty"`
	Skills      []*Skill  `json:"skills,omitempty"`
	Expanded    bool      `json:"expanded"`
}

// WalkSkills visits every skill in the tree, including nested child skills,
// child groups first.
func WalkSkills(groups []*Group, visit func(*Skill)) {
	for _, g := range groups {
		if g == nil {
			continue
		}
		WalkSkills(g.Groups, visit)
		for _, s := range g.Skills {
			walkSkill(s, visit)
		}
	}
}

func walkSkill(s *Skill, visit func(*Skill)) {
	if s == nil {
		return
	}
	for _, c := range s.Children {
		walkSkill(c, visit)
	}
	visit(s)
}

func FindSkill(groups []*Group, id uuid.UUID) *Skill {
	var found *Skill
	WalkSkills(groups, func(s *Skill) {
		if s.ID == id {
			found = s
		}
	})
	return found
}

// AttachAssessments binds saved self-assessments into a freshly fetched
// tree. Prevailing and Active get independent copies of the saved value.
func AttachAssessments(groups []*Group, saved map[uuid.UUID]*SelfAssessment) {
	WalkSkills(groups, func(s *Skill) {
		a := &Assessment{Skill: s}
		if sa, ok := saved[s.ID]; ok && sa != nil {
			a.Prevailing = sa.Clone()
			a.Active = sa.Clone()
		}
		s.Assessment = a
	})
}
