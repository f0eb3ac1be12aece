package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Event is one dated engagement action by one user: an entry created, a
// placement used. SharedCount and CommentCount describe the engagement the
// item itself attracted.
type Event struct {
	UserID       uuid.UUID
	OccurredAt   time.Time
	SharedCount  int
	CommentCount int
}

// RosterUser is one candidate user for a report run. Users with no matching
// events still appear in the summary with zeroed counters.
type RosterUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UserEngagement accumulates one user's counters across a report run.
type UserEngagement struct {
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	TotalEvents   int       `json:"total_events"`
	TotalShares   int       `json:"total_shares"`
	TotalComments int       `json:"total_comments"`
	Engaged       bool      `json:"engaged"`
	// FirstEngaged is nil for roster users with no events in range, so
	// they serialize without a bogus zero date.
	FirstEngaged *time.Time `json:"first_engaged,omitempty"`
}

// Series carries the charted timelines: one point per calendar day on the
// axis. Daily counts distinct users with at least one event that day;
// Cumulative counts distinct users whose first engagement is on or before
// that day and never decreases.
type Series struct {
	Days       []time.Time `json:"days"`
	Daily      []int       `json:"daily"`
	Cumulative []int       `json:"cumulative"`
}

// Result is the output of one aggregation run; it is rebuilt from scratch on
// every run and shares no state with previous runs.
type Result struct {
	Users  []UserEngagement `json:"users"`
	Series Series           `json:"series"`
}

// Aggregate walks an unordered event list once, then builds the per-user
// summary and the zero-filled daily and cumulative series over
// [from, to].
func Aggregate(events []Event, roster []RosterUser, from, to time.Time) Result {
	firstSeen := make(map[uuid.UUID]time.Time)
	counters := make(map[uuid.UUID]*UserEngagement)
	dayUsers := make(map[string]map[uuid.UUID]struct{})

	for _, ev := range events {
		day := DayOf(ev.OccurredAt)

		// Events are not guaranteed sorted: keep the earliest day even
		// when it shows up late in iteration order.
		if seen, ok := firstSeen[ev.UserID]; !ok || day.Before(seen) {
			firstSeen[ev.UserID] = day
		}

		c, ok := counters[ev.UserID]
		if !ok {
			c = &UserEngagement{UserID: ev.UserID, Engaged: true}
			counters[ev.UserID] = c
		}
		c.TotalEvents++
		if ev.SharedCount > 0 {
			c.TotalShares++
		}
		c.TotalComments += ev.CommentCount

		key := DayKey(day)
		set, ok := dayUsers[key]
		if !ok {
			set = make(map[uuid.UUID]struct{})
			dayUsers[key] = set
		}
		set[ev.UserID] = struct{}{}
	}

	axis := DateAxis(from, to)

	daily := make([]int, len(axis))
	for i, d := range axis {
		daily[i] = len(dayUsers[DayKey(d)])
	}

	firsts := make([]time.Time, 0, len(firstSeen))
	for _, d := range firstSeen {
		firsts = append(firsts, d)
	}
	sort.Slice(firsts, func(i, j int) bool { return firsts[i].Before(firsts[j]) })

	cumulative := make([]int, len(axis))
	idx := 0
	running := 0
	for i, d := range axis {
		for idx < len(firsts) && !firsts[idx].After(d) {
			running++
			idx++
		}
		cumulative[i] = running
	}

	users := make([]UserEngagement, 0, len(roster))
	for _, ru := range roster {
		u := UserEngagement{UserID: ru.ID, Name: ru.Name}
		if c, ok := counters[ru.ID]; ok {
			u.TotalEvents = c.TotalEvents
			u.TotalShares = c.TotalShares
			u.TotalComments = c.TotalComments
			u.Engaged = true
			first := firstSeen[ru.ID]
			u.FirstEngaged = &first
		}
		users = append(users, u)
	}

	return Result{
		Users:  users,
		Series: Series{Days: axis, Daily: daily, Cumulative: cumulative},
	}
}
