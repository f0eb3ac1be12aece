package repository

import (
	"context"
	"time"

	"folio/internal/database"
	"folio/internal/domain/report"
)

// EngagementRepository produces the flat, dated event rows the report
// aggregator consumes. Rows come back in storage order; the aggregator does
// not require sorting.
type EngagementRepository interface {
	EntryEvents(ctx context.Context, from, to time.Time) ([]report.Event, error)
	PlacementEvents(ctx context.Context, from, to time.Time) ([]report.Event, error)
	// EarliestEntryDate supplies the report-wide minimum date when the
	// caller gives no lower bound. ok is false on an empty table.
	EarliestEntryDate(ctx context.Context) (t time.Time, ok bool, err error)
	EarliestPlacementDate(ctx context.Context) (t time.Time, ok bool, err error)
}

type PostgresEngagementRepository struct {
	db database.DB
}

func NewPostgresEngagementRepository(db database.DB) *PostgresEngagementRepository {
	return &PostgresEngagementRepository{db: db}
}

func (r *PostgresEngagementRepository) EntryEvents(ctx context.Context, from, to time.Time) ([]report.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.author_id, e.created_at,
		        (SELECT COUNT(*) FROM entry_shares s WHERE s.entry_id = e.id),
		        (SELECT COUNT(*) FROM entry_comments c WHERE c.entry_id = e.id)
		 FROM entries e
		 WHERE e.created_at >= $1 AND e.created_at < $2`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]report.Event, 0)
	for rows.Next() {
		var ev report.Event
		if err := rows.Scan(&ev.UserID, &ev.OccurredAt, &ev.SharedCount, &ev.CommentCount); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresEngagementRepository) PlacementEvents(ctx context.Context, from, to time.Time) ([]report.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, created_at
		 FROM placements
		 WHERE created_at >= $1 AND created_at < $2`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]report.Event, 0)
	for rows.Next() {
		var ev report.Event
		if err := rows.Scan(&ev.UserID, &ev.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresEngagementRepository) EarliestEntryDate(ctx context.Context) (time.Time, bool, error) {
	return r.earliest(ctx, `SELECT MIN(created_at) FROM entries`)
}

func (r *PostgresEngagementRepository) EarliestPlacementDate(ctx context.Context) (time.Time, bool, error) {
	return r.earliest(ctx, `SELECT MIN(created_at) FROM placements`)
}

func (r *PostgresEngagementRepository) earliest(ctx context.Context, query string) (time.Time, bool, error) {
	var min *time.Time
	row := r.db.QueryRow(ctx, query)
	if err := row.Scan(&min); err != nil {
		return time.Time{}, false, err
	}
	if min == nil {
		return time.Time{}, false, nil
	}
	return *min, true, nil
}
