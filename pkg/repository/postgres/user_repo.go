package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftfolio/server/pkg/identity"
)

// UserRepository implements identity.UserRepository backed by PostgreSQL (pgx).
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	repo := &UserRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *UserRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			external_id TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			provider TEXT NOT NULL DEFAULT 'google',
			username TEXT NOT NULL UNIQUE,
			selected_resume UUID,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		-- backfill for older schemas
		ALTER TABLE users ADD COLUMN IF NOT EXISTS selected_resume UUID;
		ALTER TABLE users ADD COLUMN IF NOT EXISTS username TEXT;
	`)
	return err
}

func (r *UserRepository) Create(ctx context.Context, user identity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, external_id, email, name, provider, username, selected_resume, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, user.ExternalID, strings.ToLower(user.Email), user.Name, string(user.Provider),
		user.Username, user.SelectedResume, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("user already exists: %w", err)
		}
		return err
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user identity.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET email = $2, name = $3, provider = $4, updated_at = $5
		WHERE id = $1
	`, user.ID, strings.ToLower(user.Email), user.Name, string(user.Provider), user.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrNotFound
	}
	return nil
}

const userColumns = `id, external_id, email, name, provider, username, selected_resume, created_at, updated_at`

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (identity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (identity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (identity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, strings.ToLower(username))
	return scanUser(row)
}

func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, strings.ToLower(username)).Scan(&exists)
	return exists, err
}

func (r *UserRepository) SetSelectedResume(ctx context.Context, userID, variantID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET selected_resume = $2, updated_at = $3 WHERE id = $1
	`, userID, variantID, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (identity.User, error) {
	var user identity.User
	var provider string
	var selected uuid.NullUUID
	var createdAt, updatedAt time.Time
	if err := row.Scan(&user.ID, &user.ExternalID, &user.Email, &user.Name, &provider,
		&user.Username, &selected, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.User{}, identity.ErrNotFound
		}
		return identity.User{}, err
	}
	user.Provider = identity.Provider(provider)
	if selected.Valid {
		id := selected.UUID
		user.SelectedResume = &id
	}
	user.CreatedAt = createdAt.UTC()
	user.UpdatedAt = updatedAt.UTC()
	return user, nil
}
