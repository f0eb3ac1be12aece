package repository

import (
	"context"
	"errors"
	"time"

	"folio/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrPlacementNotFound  = errors.New("placement not found")
	ErrPlacementForbidden = errors.New("forbidden")
)

type Placement struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Location  string
	StartedOn time.Time
	EndedOn   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PlacementRepository interface {
	Create(ctx context.Context, p Placement) (Placement, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Placement, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type PostgresPlacementRepository struct {
	db database.DB
}

func NewPostgresPlacementRepository(db database.DB) *PostgresPlacementRepository {
	return &PostgresPlacementRepository{db: db}
}

func (r *PostgresPlacementRepository) Create(ctx context.Context, p Placement) (Placement, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO placements (id, user_id, title, location, started_on, ended_on)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.UserID, p.Title, p.Location, p.StartedOn, p.EndedOn,
	)
	if err != nil {
		return Placement{}, err
	}

	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, COALESCE(location, ''), started_on, ended_on, created_at, updated_at
		 FROM placements WHERE id = $1`,
		p.ID,
	)
	var created Placement
	if err := row.Scan(&created.ID, &created.UserID, &created.Title, &created.Location,
		&created.StartedOn, &created.EndedOn, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return Placement{}, err
	}
	return created, nil
}

func (r *PostgresPlacementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Placement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, COALESCE(location, ''), started_on, ended_on, created_at, updated_at
		 FROM placements
		 WHERE user_id = $1
		 ORDER BY started_on DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Placement, 0)
	for rows.Next() {
		var p Placement
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Location,
			&p.StartedOn, &p.EndedOn, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresPlacementRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	var owner uuid.UUID
	row := r.db.QueryRow(ctx, `SELECT user_id FROM placements WHERE id = $1`, id)
	if err := row.Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPlacementNotFound
		}
		return err
	}
	if owner != userID {
		return ErrPlacementForbidden
	}

	_, err := r.db.Exec(ctx, `DELETE FROM placements WHERE id = $1`, id)
	return err
}
