package assessment

import (
	"sync"

	"folio/internal/domain/skill"

	"github.com/google/uuid"
)

// Merge folds an incoming batch of self-assessments into the current
// dictionary, last write wins at second granularity. A nil incoming value
// deletes the entry. On an exact timestamp tie the incoming value wins; the
// comparison is deliberately <= so a caller re-submitting within the same
// second sees its own write. Values copied in never alias the input.
func Merge(current map[uuid.UUID]*skill.SelfAssessment, incoming map[uuid.UUID]*skill.SelfAssessment) {
	for id, in := range incoming {
		if in == nil {
			delete(current, id)
			continue
		}
		cur, ok := current[id]
		if !ok || cur == nil || cur.CreatedAt.Unix() <= in.CreatedAt.Unix() {
			current[id] = in.Clone()
		}
	}
}

// Key addresses one cached self-assessment dictionary.
type Key struct {
	UserID     uuid.UUID
	SkillSetID uuid.UUID
}

// Store memoizes self-assessment dictionaries per (user, skill set).
// Population is lazy: the caller fetches on a miss and Puts the result.
type Store struct {
	mu    sync.Mutex
	byKey map[Key]map[uuid.UUID]*skill.SelfAssessment
}

func NewStore() *Store {
	return &Store{byKey: make(map[Key]map[uuid.UUID]*skill.SelfAssessment)}
}

// Get returns a copy of the cached dictionary, or false on a miss.
func (s *Store) Get(key Key) (map[uuid.UUID]*skill.SelfAssessment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dict, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	return cloneDict(dict), true
}

func (s *Store) Put(key Key, dict map[uuid.UUID]*skill.SelfAssessment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[key] = cloneDict(dict)
}

// Update merges into the cached dictionary. A miss is a no-op: creating
// the entry here would plant a partial dictionary and mask the baseline,
// so an unpopulated key stays unpopulated until the next Get fetches it.
func (s *Store) Update(key Key, incoming map[uuid.UUID]*skill.SelfAssessment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dict, ok := s.byKey[key]
	if !ok {
		return
	}
	Merge(dict, incoming)
}

func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byKey, key)
}

func cloneDict(dict map[uuid.UUID]*skill.SelfAssessment) map[uuid.UUID]*skill.SelfAssessment {
	out := make(map[uuid.UUID]*skill.SelfAssessment, len(dict))
	for id, sa := range dict {
		out[id] = sa.Clone()
	}
	return out
}
