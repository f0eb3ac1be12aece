package repository

import (
	"context"
	"errors"

	"folio/internal/database"
	"folio/internal/domain/report"

	"github.com/google/uuid"
)

var ErrTutoringLinkNotFound = errors.New("tutoring link not found")

// TutoringRepository manages tutor/tutee links and the rosters reports run
// against.
type TutoringRepository interface {
	ListTutees(ctx context.Context, tutorID uuid.UUID) ([]report.RosterUser, error)
	ListRoster(ctx context.Context) ([]report.RosterUser, error)
	AddLink(ctx context.Context, tutorID, tuteeID uuid.UUID) error
	RemoveLink(ctx context.Context, tutorID, tuteeID uuid.UUID) error
}

type PostgresTutoringRepository struct {
	db database.DB
}

func NewPostgresTutoringRepository(db database.DB) *PostgresTutoringRepository {
	return &PostgresTutoringRepository{db: db}
}

func (r *PostgresTutoringRepository) ListTutees(ctx context.Context, tutorID uuid.UUID) ([]report.RosterUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, COALESCE(u.name, u.email)
		 FROM tutoring_links t
		 JOIN users u ON u.id = t.tutee_id
		 WHERE t.tutor_id = $1
		 ORDER BY u.name ASC`,
		tutorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRoster(rows)
}

func (r *PostgresTutoringRepository) ListRoster(ctx context.Context) ([]report.RosterUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, COALESCE(name, email) FROM users ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRoster(rows)
}

func (r *PostgresTutoringRepository) AddLink(ctx context.Context, tutorID, tuteeID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tutoring_links (tutor_id, tutee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		tutorID, tuteeID,
	)
	return err
}

func (r *PostgresTutoringRepository) RemoveLink(ctx context.Context, tutorID, tuteeID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM tutoring_links WHERE tutor_id = $1 AND tutee_id = $2`,
		tutorID, tuteeID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTutoringLinkNotFound
	}
	return nil
}

func scanRoster(rows database.Rows) ([]report.RosterUser, error) {
	out := make([]report.RosterUser, 0)
	for rows.Next() {
		var u report.RosterUser
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
