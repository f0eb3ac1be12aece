package skill

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestTree() ([]*Group, map[string]*Skill) {
	byName := map[string]*Skill{}
	mk := func(name string, children ...*Skill) *Skill {
		s := &Skill{ID: uuid.New(), Name: name, Children: children, CanSelfAssess: true}
		byName[name] = s
		return s
	}

	communication := mk("Communication",
		mk("Active Listening"),
		mk("Written Reports"),
	)
	clinical := mk("Clinical Reasoning")
	teamwork := mk("Teamwork")

	root := []*Group{
		{
			ID:   uuid.New(),
			Name: "Core",
			Groups: []*Group{
				{ID: uuid.New(), Name: "Interpersonal", Skills: []*Skill{communication, teamwork}},
			},
			Skills: []*Skill{clinical},
		},
	}
	AttachAssessments(root, nil)
	return root, byName
}

func hiddenByName(t *testing.T, byName map[string]*Skill, name string) bool {
	t.Helper()
	s, ok := byName[name]
	if !ok {
		t.Fatalf("no skill named %q in fixture", name)
	}
	if s.Assessment == nil {
		t.Fatalf("skill %q has no assessment attached", name)
	}
	return s.Assessment.Hidden
}

func TestApplyFilters_NoFacetsNoTerms_AllVisible(t *testing.T) {
	tree, byName := newTestTree()
	ApplyFilters(tree, nil, nil)
	for name := range byName {
		if hiddenByName(t, byName, name) {
			t.Fatalf("skill %q hidden with no active filters", name)
		}
	}
}

func TestApplyFilters_SearchTermsMustAllMatch(t *testing.T) {
	tree, byName := newTestTree()

	ApplyFilters(tree, nil, []string{"COMM"})
	if hiddenByName(t, byName, "Communication") {
		t.Fatalf("case-insensitive substring match should keep Communication visible")
	}
	if !hiddenByName(t, byName, "Teamwork") {
		t.Fatalf("Teamwork should be hidden by term comm")
	}

	// Both terms must match the name; one failing term hides.
	ApplyFilters(tree, nil, []string{"active", "listening"})
	if hiddenByName(t, byName, "Active Listening") {
		t.Fatalf("Active Listening matches both terms")
	}
	if !hiddenByName(t, byName, "Communication") {
		t.Fatalf("Communication fails the listening term")
	}
}

func TestApplyFilters_BlankTermsIgnored(t *testing.T) {
	tree, byName := newTestTree()
	ApplyFilters(tree, nil, []string{"  ", ""})
	if hiddenByName(t, byName, "Teamwork") {
		t.Fatalf("blank search terms must not hide anything")
	}
}

func TestApplyFilters_FacetGroups(t *testing.T) {
	tree, byName := newTestTree()
	groupA := uuid.New()
	groupB := uuid.New()

	facets := []Facet{
		{ID: uuid.New(), FilterID: groupA, Selected: true, MatchedSkills: []uuid.UUID{byName["Communication"].ID, byName["Teamwork"].ID}},
		{ID: uuid.New(), FilterID: groupA, Selected: true, MatchedSkills: []uuid.UUID{byName["Clinical Reasoning"].ID}},
		{ID: uuid.New(), FilterID: groupB, Selected: true, MatchedSkills: []uuid.UUID{byName["Communication"].ID}},
		{ID: uuid.New(), FilterID: groupB, Selected: false, MatchedSkills: []uuid.UUID{byName["Teamwork"].ID}},
	}

	ApplyFilters(tree, facets, nil)

	// Communication is in groupA (first facet) and groupB.
	if hiddenByName(t, byName, "Communication") {
		t.Fatalf("Communication is matched by every active group")
	}
	// Teamwork is in groupA but its groupB facet is not selected.
	if !hiddenByName(t, byName, "Teamwork") {
		t.Fatalf("Teamwork misses groupB and should be hidden")
	}
	// Clinical Reasoning is in groupA via the second facet but not groupB.
	if !hiddenByName(t, byName, "Clinical Reasoning") {
		t.Fatalf("Clinical Reasoning misses groupB and should be hidden")
	}
}

func TestApplyFilters_DirectChildSatisfiesFacet(t *testing.T) {
	tree, byName := newTestTree()
	group := uuid.New()
	facets := []Facet{
		{ID: uuid.New(), FilterID: group, Selected: true, MatchedSkills: []uuid.UUID{byName["Active Listening"].ID}},
	}

	ApplyFilters(tree, facets, nil)

	if hiddenByName(t, byName, "Active Listening") {
		t.Fatalf("matched child should be visible")
	}
	if hiddenByName(t, byName, "Communication") {
		t.Fatalf("parent with a matched direct child should be visible")
	}
	if !hiddenByName(t, byName, "Teamwork") {
		t.Fatalf("unmatched skill should be hidden")
	}
}

func TestApplyFilters_Idempotent(t *testing.T) {
	tree, byName := newTestTree()
	facets := []Facet{{ID: uuid.New(), FilterID: uuid.New(), Selected: true, MatchedSkills: []uuid.UUID{byName["Teamwork"].ID}}}
	terms := []string{"team"}

	ApplyFilters(tree, facets, terms)
	first := map[string]bool{}
	for name := range byName {
		first[name] = hiddenByName(t, byName, name)
	}

	ApplyFilters(tree, facets, terms)
	for name, want := range first {
		if got := hiddenByName(t, byName, name); got != want {
			t.Fatalf("hidden flag for %q changed across identical runs: %v then %v", name, want, got)
		}
	}
}

func TestAttachAssessments_DeepCopies(t *testing.T) {
	tree, byName := newTestTree()
	target := byName["Teamwork"]
	saved := map[uuid.UUID]*SelfAssessment{
		target.ID: {LevelID: uuid.New(), SkillID: target.ID, Score: 120, CreatedAt: time.Now().UTC()},
	}

	AttachAssessments(tree, saved)

	a := target.Assessment
	if a.Prevailing == nil || a.Active == nil {
		t.Fatalf("saved assessment not attached")
	}
	if a.Prevailing == a.Active {
		t.Fatalf("active must not alias prevailing")
	}
	if a.Active == saved[target.ID] || a.Prevailing == saved[target.ID] {
		t.Fatalf("attached assessments must not alias the source map")
	}
	a.Active.Score = 10
	if a.Prevailing.Score != 120 {
		t.Fatalf("editing active corrupted prevailing")
	}
}

func TestScaleLowestAndColor(t *testing.T) {
	sc := Scale{Levels: []ScaleLevel{
		{Name: "Competent", Score: 90},
		{Name: "Novice", Score: 10},
		{Name: "Expert", Score: 170},
	}}
	lowest, ok := sc.Lowest()
	if !ok || lowest.Name != "Novice" {
		t.Fatalf("expected Novice as lowest rung, got %+v ok=%v", lowest, ok)
	}
	if got := LevelColor(90); got != "hsl(90, 100%, 40%)" {
		t.Fatalf("unexpected color mapping: %s", got)
	}
}
