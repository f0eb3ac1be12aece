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
	ErrEntryNotFound  = errors.New("entry not found")
	ErrEntryForbidden = errors.New("forbidden")
)

type Entry struct {
	ID           uuid.UUID
	AuthorID     uuid.UUID
	AuthorName   string
	Title        string
	Body         string
	SkillIDs     []uuid.UUID
	SharedCount  int
	CommentCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type EntryComment struct {
	ID         uuid.UUID
	EntryID    uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string
	Body       string
	CreatedAt  time.Time
}

type EntryRepository interface {
	Create(ctx context.Context, e Entry) (Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (Entry, error)
	// ListForUser returns entries the user authored plus entries shared
	// with them, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Entry, error)
	Update(ctx context.Context, e Entry) (Entry, error)
	Delete(ctx context.Context, id, authorID uuid.UUID) error
	Share(ctx context.Context, entryID uuid.UUID, userIDs []uuid.UUID) error
	AddComment(ctx context.Context, c EntryComment) (EntryComment, error)
	ListComments(ctx context.Context, entryID uuid.UUID) ([]EntryComment, error)
}

type PostgresEntryRepository struct {
	db database.DB
}

func NewPostgresEntryRepository(db database.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

const entrySelect = `
SELECT e.id, e.author_id, COALESCE(u.name, ''), e.title, e.body, e.created_at, e.updated_at,
       (SELECT COUNT(*) FROM entry_shares s WHERE s.entry_id = e.id),
       (SELECT COUNT(*) FROM entry_comments c WHERE c.entry_id = e.id)
FROM entries e
JOIN users u ON u.id = e.author_id`

func (r *PostgresEntryRepository) Create(ctx context.Context, e Entry) (Entry, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Entry{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO entries (id, author_id, title, body) VALUES ($1, $2, $3, $4)`,
		e.ID, e.AuthorID, e.Title, e.Body,
	)
	if err != nil {
		return Entry{}, err
	}
	for _, skillID := range e.SkillIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO entry_skills (entry_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			e.ID, skillID,
		)
		if err != nil {
			return Entry{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Entry{}, err
	}

	return r.GetByID(ctx, e.ID)
}

func (r *PostgresEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (Entry, error) {
	row := r.db.QueryRow(ctx, entrySelect+` WHERE e.id = $1`, id)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}

	skillRows, err := r.db.Query(ctx, `SELECT skill_id FROM entry_skills WHERE entry_id = $1`, id)
	if err != nil {
		return Entry{}, err
	}
	defer skillRows.Close()
	for skillRows.Next() {
		var skillID uuid.UUID
		if err := skillRows.Scan(&skillID); err != nil {
			return Entry{}, err
		}
		e.SkillIDs = append(e.SkillIDs, skillID)
	}
	if err := skillRows.Err(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (r *PostgresEntryRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Entry, error) {
	rows, err := r.db.Query(ctx,
		entrySelect+`
		 WHERE e.author_id = $1
		    OR EXISTS (SELECT 1 FROM entry_shares s WHERE s.entry_id = e.id AND s.user_id = $1)
		 ORDER BY e.created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresEntryRepository) Update(ctx context.Context, e Entry) (Entry, error) {
	affected, err := r.db.Exec(ctx,
		`UPDATE entries SET title = $1, body = $2, updated_at = now() WHERE id = $3 AND author_id = $4`,
		e.Title, e.Body, e.ID, e.AuthorID,
	)
	if err != nil {
		return Entry{}, err
	}
	if affected == 0 {
		return Entry{}, ErrEntryNotFound
	}
	return r.GetByID(ctx, e.ID)
}

func (r *PostgresEntryRepository) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	var owner uuid.UUID
	row := r.db.QueryRow(ctx, `SELECT author_id FROM entries WHERE id = $1`, id)
	if err := row.Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEntryNotFound
		}
		return err
	}
	if owner != authorID {
		return ErrEntryForbidden
	}

	_, err := r.db.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	return err
}

func (r *PostgresEntryRepository) Share(ctx context.Context, entryID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, userID := range userIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO entry_shares (entry_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			entryID, userID,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresEntryRepository) AddComment(ctx context.Context, c EntryComment) (EntryComment, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO entry_comments (id, entry_id, author_id, body) VALUES ($1, $2, $3, $4)`,
		c.ID, c.EntryID, c.AuthorID, c.Body,
	)
	if err != nil {
		return EntryComment{}, err
	}

	row := r.db.QueryRow(ctx,
		`SELECT c.id, c.entry_id, c.author_id, COALESCE(u.name, ''), c.body, c.created_at
		 FROM entry_comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.id = $1`,
		c.ID,
	)
	var created EntryComment
	if err := row.Scan(&created.ID, &created.EntryID, &created.AuthorID, &created.AuthorName, &created.Body, &created.CreatedAt); err != nil {
		return EntryComment{}, err
	}
	return created, nil
}

func (r *PostgresEntryRepository) ListComments(ctx context.Context, entryID uuid.UUID) ([]EntryComment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.entry_id, c.author_id, COALESCE(u.name, ''), c.body, c.created_at
		 FROM entry_comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.entry_id = $1
		 ORDER BY c.created_at ASC`,
		entryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]EntryComment, 0)
	for rows.Next() {
		var c EntryComment
		if err := rows.Scan(&c.ID, &c.EntryID, &c.AuthorID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanEntry(row database.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.AuthorID, &e.AuthorName, &e.Title, &e.Body,
		&e.CreatedAt, &e.UpdatedAt, &e.SharedCount, &e.CommentCount)
	return e, err
}
