package assessment

import (
	"testing"
	"time"

	"folio/internal/domain/skill"

	"github.com/google/uuid"
)

func sa(skillID uuid.UUID, score int, at time.Time) *skill.SelfAssessment {
	return &skill.SelfAssessment{LevelID: uuid.New(), SkillID: skillID, Score: score, CreatedAt: at}
}

func TestMerge_LastWriteWinsMonotonic(t *testing.T) {
	id := uuid.New()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cur := map[uuid.UUID]*skill.SelfAssessment{}

	for i := 1; i <= 3; i++ {
		Merge(cur, map[uuid.UUID]*skill.SelfAssessment{id: sa(id, i*10, base.Add(time.Duration(i)*time.Second))})
		if cur[id].Score != i*10 {
			t.Fatalf("step %d: expected score %d, got %d", i, i*10, cur[id].Score)
		}
	}

	// A stale update must be dropped silently.
	Merge(cur, map[uuid.UUID]*skill.SelfAssessment{id: sa(id, 999, base)})
	if cur[id].Score != 30 {
		t.Fatalf("stale update overwrote newer value: %d", cur[id].Score)
	}
}

func TestMerge_TieBreakFavorsIncoming(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cur := map[uuid.UUID]*skill.SelfAssessment{id: sa(id, 10, at)}

	// Same epoch second, sub-second difference is ignored.
	Merge(cur, map[uuid.UUID]*skill.SelfAssessment{id: sa(id, 20, at.Add(500*time.Millisecond))})
	if cur[id].Score != 20 {
		t.Fatalf("incoming should win an exact second tie, got %d", cur[id].Score)
	}
}

func TestMerge_NilDeletes(t *testing.T) {
	id := uuid.New()
	cur := map[uuid.UUID]*skill.SelfAssessment{id: sa(id, 10, time.Now().UTC())}
	Merge(cur, map[uuid.UUID]*skill.SelfAssessment{id: nil})
	if _, ok := cur[id]; ok {
		t.Fatalf("nil incoming value should delete the entry")
	}
}

func TestMerge_CopiesIncoming(t *testing.T) {
	id := uuid.New()
	in := sa(id, 10, time.Now().UTC())
	cur := map[uuid.UUID]*skill.SelfAssessment{}
	Merge(cur, map[uuid.UUID]*skill.SelfAssessment{id: in})
	if cur[id] == in {
		t.Fatalf("merged value must not alias the incoming object")
	}
	in.Score = 77
	if cur[id].Score != 10 {
		t.Fatalf("mutating the input leaked into the cache")
	}
}

func TestStore_LazyMemoizationAndInvalidate(t *testing.T) {
	store := NewStore()
	key := Key{UserID: uuid.New(), SkillSetID: uuid.New()}
	id := uuid.New()

	if _, ok := store.Get(key); ok {
		t.Fatalf("expected a miss before population")
	}

	store.Put(key, map[uuid.UUID]*skill.SelfAssessment{id: sa(id, 40, time.Now().UTC())})
	dict, ok := store.Get(key)
	if !ok || dict[id].Score != 40 {
		t.Fatalf("populated dictionary not returned")
	}

	// Returned copies must not write back into the store.
	dict[id].Score = 1
	again, _ := store.Get(key)
	if again[id].Score != 40 {
		t.Fatalf("Get leaked a mutable reference into the store")
	}

	store.Invalidate(key)
	if _, ok := store.Get(key); ok {
		t.Fatalf("invalidated key still cached")
	}
}

func TestStore_UpdateBeforeFirstReadStaysUnpopulated(t *testing.T) {
	store := NewStore()
	key := Key{UserID: uuid.New(), SkillSetID: uuid.New()}
	id := uuid.New()

	// Merging into an unpopulated key must not plant a partial dictionary:
	// the next Get has to keep reporting a miss so the caller fetches the
	// full baseline.
	store.Update(key, map[uuid.UUID]*skill.SelfAssessment{id: sa(id, 70, time.Now().UTC())})
	if _, ok := store.Get(key); ok {
		t.Fatalf("update on a missing key created a partial dictionary")
	}

	store.Put(key, map[uuid.UUID]*skill.SelfAssessment{})
	store.Update(key, map[uuid.UUID]*skill.SelfAssessment{id: sa(id, 70, time.Now().UTC())})
	dict, ok := store.Get(key)
	if !ok || dict[id].Score != 70 {
		t.Fatalf("update after population was lost")
	}
}
