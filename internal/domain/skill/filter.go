package skill

import (
	"strings"

	"github.com/google/uuid"
)

// Facet is a named, pre-defined subset of skills usable as a filter
// criterion. Facets sharing a FilterID form one facet group.
type Facet struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	FilterID      uuid.UUID   `json:"skill_filter_id"`
	MatchedSkills []uuid.UUID `json:"matched_skill_ids"`
	Selected      bool        `json:"selected"`
}

// ApplyFilters recomputes the hidden flag on every skill in the tree,
// nested child skills included. A skill stays visible only if it matches
// every active facet group (membership in the group's unioned matched-id
// set, or a direct child's membership) and every search term
// (case-insensitive substring on the skill name). The computation is pure
// and runs over the full tree on each call; trees are small enough that
// caching is not worth carrying.
func ApplyFilters(groups []*Group, facets []Facet, terms []string) {
	matched := groupMatchedIDs(facets)
	needles := normalizeTerms(terms)

	WalkSkills(groups, func(s *Skill) {
		if s.Assessment == nil {
			s.Assessment = &Assessment{Skill: s}
		}
		s.Assessment.Hidden = searchHidden(s, needles) || facetHidden(s, matched)
	})
}

// groupMatchedIDs unions the matched-skill sets of the selected facets
// within each facet group.
func groupMatchedIDs(facets []Facet) map[uuid.UUID]map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]map[uuid.UUID]struct{})
	for _, f := range facets {
		if !f.Selected {
			continue
		}
		set, ok := out[f.FilterID]
		if !ok {
			set = make(map[uuid.UUID]struct{})
			out[f.FilterID] = set
		}
		for _, id := range f.MatchedSkills {
			set[id] = struct{}{}
		}
	}
	return out
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// searchHidden: every term must match; one failing term hides the skill.
func searchHidden(s *Skill, needles []string) bool {
	if len(needles) == 0 {
		return false
	}
	name := strings.ToLower(s.Name)
	for _, n := range needles {
		if !strings.Contains(name, n) {
			return true
		}
	}
	return false
}

// facetHidden: AND across facet groups, OR within a group, with a one-level
// fallback onto direct child skills.
func facetHidden(s *Skill, matched map[uuid.UUID]map[uuid.UUID]struct{}) bool {
	for _, set := range matched {
		if _, ok := set[s.ID]; ok {
			continue
		}
		childHit := false
		for _, c := range s.Children {
			if c == nil {
				continue
			}
			if _, ok := set[c.ID]; ok {
				childHit = true
				break
			}
		}
		if !childHit {
			return true
		}
	}
	return false
}
