package usecase

import (
	"context"
	"time"

	"folio/internal/domain/report"
	"folio/internal/domain/user"
	"folio/internal/repository"

	"github.com/google/uuid"
)

const (
	ReportSourceEntries    = "entries"
	ReportSourcePlacements = "placements"
)

type EngagementReportInput struct {
	Source string
	From   *time.Time
	To     *time.Time
}

type ReportUsecase interface {
	// EngagementReport aggregates activity per user over a date range.
	// Staff see the full roster, tutors see their tutees.
	EngagementReport(ctx context.Context, callerID uuid.UUID, in EngagementReportInput) (report.Result, error)
}

type Report struct {
	engagement repository.EngagementRepository
	tutoring   repository.TutoringRepository
	users      user.Repository
	cache      Cache
	cacheTTL   time.Duration
	now        func() time.Time
}

func NewReportUsecase(
	engagement repository.EngagementRepository,
	tutoring repository.TutoringRepository,
	users user.Repository,
	cache Cache,
	cacheTTL time.Duration,
) *Report {
	return &Report{
		engagement: engagement,
		tutoring:   tutoring,
		users:      users,
		cache:      cache,
		cacheTTL:   cacheTTL,
		now:        time.Now,
	}
}

func (u *Report) EngagementReport(ctx context.Context, callerID uuid.UUID, in EngagementReportInput) (report.Result, error) {
	if in.Source != ReportSourceEntries && in.Source != ReportSourcePlacements {
		return report.Result{}, ErrInvalidInput
	}

	caller, err := u.users.GetUserByID(ctx, callerID)
	if err != nil {
		return report.Result{}, ErrInternal
	}

	var roster []report.RosterUser
	switch caller.Role {
	case user.RoleStaff:
		roster, err = u.tutoring.ListRoster(ctx)
	case user.RoleTutor:
		roster, err = u.tutoring.ListTutees(ctx, callerID)
	default:
		return report.Result{}, ErrForbidden
	}
	if err != nil {
		return report.Result{}, ErrInternal
	}

	from, to, err := u.resolveRange(ctx, in)
	if err != nil {
		return report.Result{}, err
	}

	ids := make([]string, 0, len(roster))
	for _, ru := range roster {
		ids = append(ids, ru.ID.String())
	}
	cacheKey := EngagementReportCacheKey(in.Source, from, to, ids)

	if u.cache != nil {
		var cached report.Result
		if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}

		// Best-effort single flight: if another request is already
		// computing this report, give it a moment and re-check the
		// cache before duplicating the work.
		lockKey := EngagementReportLockKey(cacheKey)
		acquired, err := u.cache.SetIfNotExists(ctx, lockKey, "1", 30*time.Second)
		if err == nil && !acquired {
			time.Sleep(200 * time.Millisecond)
			if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
				return cached, nil
			}
		}
		// Only the lock holder releases it; a loser deleting the key
		// would let a third request duplicate the winner's work.
		if acquired {
			defer func() {
				_ = u.cache.Delete(context.WithoutCancel(ctx), lockKey)
			}()
		}
	}

	// Repositories treat the upper bound as exclusive.
	toExcl := to.AddDate(0, 0, 1)
	var events []report.Event
	if in.Source == ReportSourceEntries {
		events, err = u.engagement.EntryEvents(ctx, from, toExcl)
	} else {
		events, err = u.engagement.PlacementEvents(ctx, from, toExcl)
	}
	if err != nil {
		return report.Result{}, ErrInternal
	}

	// Scope the series to the visible roster.
	members := make(map[uuid.UUID]struct{}, len(roster))
	for _, ru := range roster {
		members[ru.ID] = struct{}{}
	}
	scoped := events[:0]
	for _, ev := range events {
		if _, ok := members[ev.UserID]; ok {
			scoped = append(scoped, ev)
		}
	}

	res := report.Aggregate(scoped, roster, from, to)

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cacheKey, res, u.cacheTTL)
	}
	return res, nil
}

// resolveRange fills missing bounds: the lower bound defaults to the
// earliest recorded event, the upper bound to today.
func (u *Report) resolveRange(ctx context.Context, in EngagementReportInput) (time.Time, time.Time, error) {
	to := report.DayOf(u.now())
	if in.To != nil {
		to = report.DayOf(*in.To)
	}

	if in.From != nil {
		from := report.DayOf(*in.From)
		if from.After(to) {
			return time.Time{}, time.Time{}, ErrInvalidInput
		}
		return from, to, nil
	}

	var (
		earliest time.Time
		ok       bool
		err      error
	)
	if in.Source == ReportSourceEntries {
		earliest, ok, err = u.engagement.EarliestEntryDate(ctx)
	} else {
		earliest, ok, err = u.engagement.EarliestPlacementDate(ctx)
	}
	if err != nil {
		return time.Time{}, time.Time{}, ErrInternal
	}
	if !ok {
		return to, to, nil
	}

	from := report.DayOf(earliest)
	if from.After(to) {
		from = to
	}
	return from, to, nil
}
