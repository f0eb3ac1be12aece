package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"folio/internal/domain/user"
)

type UserRepository struct {
	db *PostgresDB

	stmtCreate     *sql.Stmt
	stmtGetByID    *sql.Stmt
	stmtGetByEmail *sql.Stmt
	stmtExists     *sql.Stmt
	stmtUpdate     *sql.Stmt
	stmtList       *sql.Stmt
}

func NewUserRepository(db *PostgresDB) (*UserRepository, error) {
	r := &UserRepository{db: db}

	var err error
	r.stmtCreate, err = db.sqlDB().PrepareContext(
		context.Background(),
		`INSERT INTO users (id, email, password_hash, name, role) VALUES ($1, $2, $3, $4, $5)`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtGetByID, err = db.sqlDB().PrepareContext(
		context.Background(),
		`SELECT id, email, password_hash, name, role, created_at, updated_at FROM users WHERE id = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtGetByEmail, err = db.sqlDB().PrepareContext(
		context.Background(),
		`SELECT id, email, password_hash, name, role, created_at, updated_at FROM users WHERE email = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtExists, err = db.sqlDB().PrepareContext(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtUpdate, err = db.sqlDB().PrepareContext(
		context.Background(),
		`UPDATE users SET email = $2, password_hash = $3, name = $4, role = $5, updated_at = NOW() WHERE id = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtList, err = db.sqlDB().PrepareContext(
		context.Background(),
		`SELECT id, email, password_hash, name, role, created_at, updated_at FROM users ORDER BY name, email`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

func (r *UserRepository) Close() error {
	var firstErr error
	closeStmt := func(s *sql.Stmt) {
		if s == nil {
			return
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	closeStmt(r.stmtCreate)
	closeStmt(r.stmtGetByID)
	closeStmt(r.stmtGetByEmail)
	closeStmt(r.stmtExists)
	closeStmt(r.stmtUpdate)
	closeStmt(r.stmtList)

	return firstErr
}

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) error {
	_, err := r.stmtCreate.ExecContext(ctx, u.ID, u.Email, u.PasswordHash, u.Name, u.Role)
	return err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.stmtGetByID.QueryRowContext(ctx, id)
	return scanUser(row)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.stmtGetByEmail.QueryRowContext(ctx, email)
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.stmtExists.QueryRowContext(ctx, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, u user.User) error {
	_, err := r.stmtUpdate.ExecContext(ctx, u.ID, u.Email, u.PasswordHash, u.Name, u.Role)
	return err
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]user.User, error) {
	rows, err := r.stmtList.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type userRow interface {
	Scan(dest ...any) error
}

func scanUser(row userRow) (user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
