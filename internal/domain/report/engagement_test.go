package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregate_WorkedExample(t *testing.T) {
	u1 := uuid.New()
	u2 := uuid.New()
	events := []Event{
		{UserID: u1, OccurredAt: day(2024, 1, 2)},
		{UserID: u2, OccurredAt: day(2024, 1, 2)},
		{UserID: u1, OccurredAt: day(2024, 1, 5)},
	}
	roster := []RosterUser{{ID: u1, Name: "A"}, {ID: u2, Name: "B"}}

	res := Aggregate(events, roster, day(2024, 1, 1), day(2024, 1, 6))

	wantDaily := []int{0, 2, 0, 0, 1, 0}
	wantCumulative := []int{0, 2, 2, 2, 2, 2}
	if len(res.Series.Days) != 6 {
		t.Fatalf("expected 6 axis days, got %d", len(res.Series.Days))
	}
	for i := range wantDaily {
		if res.Series.Daily[i] != wantDaily[i] {
			t.Fatalf("daily[%d] = %d, want %d", i, res.Series.Daily[i], wantDaily[i])
		}
		if res.Series.Cumulative[i] != wantCumulative[i] {
			t.Fatalf("cumulative[%d] = %d, want %d", i, res.Series.Cumulative[i], wantCumulative[i])
		}
	}
}

func TestAggregate_UnsortedEventsKeepEarliestFirstEngagement(t *testing.T) {
	u := uuid.New()
	events := []Event{
		{UserID: u, OccurredAt: day(2024, 2, 10)},
		{UserID: u, OccurredAt: day(2024, 2, 3)},
	}
	res := Aggregate(events, []RosterUser{{ID: u}}, day(2024, 2, 1), day(2024, 2, 12))

	if got := res.Users[0].FirstEngaged; got == nil || !got.Equal(day(2024, 2, 3)) {
		t.Fatalf("first engagement = %v, want 2024-02-03", got)
	}
	// Cumulative steps up on the 3rd, not the 10th.
	if res.Series.Cumulative[1] != 0 || res.Series.Cumulative[2] != 1 {
		t.Fatalf("cumulative did not step on the earliest day: %v", res.Series.Cumulative)
	}
}

func TestAggregate_CumulativeNonDecreasingAndZeroFill(t *testing.T) {
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	events := []Event{
		{UserID: users[0], OccurredAt: day(2024, 5, 2).Add(9 * time.Hour)},
		{UserID: users[1], OccurredAt: day(2024, 5, 7)},
		{UserID: users[0], OccurredAt: day(2024, 5, 7)},
		{UserID: users[2], OccurredAt: day(2024, 5, 9)},
	}
	res := Aggregate(events, nil, day(2024, 5, 1), day(2024, 5, 10))

	if len(res.Series.Days) != 10 {
		t.Fatalf("zero-fill axis length = %d, want 10", len(res.Series.Days))
	}
	for i := 1; i < len(res.Series.Cumulative); i++ {
		if res.Series.Cumulative[i] < res.Series.Cumulative[i-1] {
			t.Fatalf("cumulative decreased at index %d: %v", i, res.Series.Cumulative)
		}
	}
	if last := res.Series.Cumulative[len(res.Series.Cumulative)-1]; last != 3 {
		t.Fatalf("expected 3 distinct engaged users, got %d", last)
	}
}

func TestAggregate_DailySumCountsUserDaysNotEvents(t *testing.T) {
	u := uuid.New()
	// Three events on the same day count once in the daily series.
	events := []Event{
		{UserID: u, OccurredAt: day(2024, 6, 4).Add(1 * time.Hour)},
		{UserID: u, OccurredAt: day(2024, 6, 4).Add(5 * time.Hour)},
		{UserID: u, OccurredAt: day(2024, 6, 4).Add(23 * time.Hour)},
	}
	res := Aggregate(events, nil, day(2024, 6, 1), day(2024, 6, 7))

	sum := 0
	for _, v := range res.Series.Daily {
		sum += v
	}
	if sum != 1 {
		t.Fatalf("daily sum = %d, want 1 user-day", sum)
	}
}

func TestAggregate_RosterZeroDefaultsAndCounters(t *testing.T) {
	engaged := uuid.New()
	silent := uuid.New()
	events := []Event{
		{UserID: engaged, OccurredAt: day(2024, 7, 1), SharedCount: 2, CommentCount: 3},
		{UserID: engaged, OccurredAt: day(2024, 7, 2), SharedCount: 0, CommentCount: 1},
	}
	roster := []RosterUser{{ID: engaged, Name: "E"}, {ID: silent, Name: "S"}}

	res := Aggregate(events, roster, day(2024, 7, 1), day(2024, 7, 3))

	if len(res.Users) != 2 {
		t.Fatalf("roster users missing from summary: %d", len(res.Users))
	}
	e := res.Users[0]
	if !e.Engaged || e.TotalEvents != 2 || e.TotalShares != 1 || e.TotalComments != 4 {
		t.Fatalf("engaged counters wrong: %+v", e)
	}
	s := res.Users[1]
	if s.Engaged || s.TotalEvents != 0 || s.TotalShares != 0 || s.TotalComments != 0 {
		t.Fatalf("silent user should be zero-defaulted: %+v", s)
	}
	if e.FirstEngaged == nil || !e.FirstEngaged.Equal(day(2024, 7, 1)) {
		t.Fatalf("engaged user first engagement wrong: %v", e.FirstEngaged)
	}
	if s.FirstEngaged != nil {
		t.Fatalf("silent user must not carry a first engagement date: %v", s.FirstEngaged)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if strings.Contains(string(b), "first_engaged") {
		t.Fatalf("zero first engagement leaked into JSON: %s", b)
	}
}

func TestDateAxis_InvertedRangeEmpty(t *testing.T) {
	if axis := DateAxis(day(2024, 1, 5), day(2024, 1, 1)); len(axis) != 0 {
		t.Fatalf("inverted range should produce an empty axis, got %d days", len(axis))
	}
}
