package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftfolio/server/pkg/variant"
)

// VariantRepository stores named portfolio variants. parsed_data uses the
// JSON column type (not JSONB) so the payload round-trips byte-for-byte.
type VariantRepository struct {
	pool *pgxpool.Pool
}

func NewVariantRepository(pool *pgxpool.Pool) (*VariantRepository, error) {
	r := &VariantRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *VariantRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resume_variants (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	name TEXT NOT NULL,
	parsed_data JSON NOT NULL,
	schema_version TEXT NOT NULL DEFAULT 'v1',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resume_variants_user_created
	ON resume_variants (user_id, created_at DESC);
-- backfill for older schemas
ALTER TABLE resume_variants ADD COLUMN IF NOT EXISTS schema_version TEXT NOT NULL DEFAULT 'v1';
`)
	return err
}

func (r *VariantRepository) Create(ctx context.Context, v variant.Variant) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = v.CreatedAt
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO resume_variants (id, user_id, name, parsed_data, schema_version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, v.ID, v.UserID, v.Name, string(v.ParsedData), v.SchemaVersion, v.CreatedAt, v.UpdatedAt)
	return err
}

const variantColumns = `id, user_id, name, parsed_data::text, schema_version, created_at, updated_at`

func (r *VariantRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]variant.Variant, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+variantColumns+`
FROM resume_variants WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []variant.Variant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

func (r *VariantRepository) GetByID(ctx context.Context, id uuid.UUID) (variant.Variant, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+variantColumns+` FROM resume_variants WHERE id = $1
`, id)
	return scanVariant(row)
}

func (r *VariantRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) (variant.Variant, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE resume_variants SET name = $2, updated_at = $3
WHERE id = $1
RETURNING `+variantColumns+`
`, id, name, time.Now().UTC())
	return scanVariant(row)
}

func scanVariant(row pgx.Row) (variant.Variant, error) {
	var v variant.Variant
	var parsed string
	var createdAt, updatedAt time.Time
	if err := row.Scan(&v.ID, &v.UserID, &v.Name, &parsed, &v.SchemaVersion, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return variant.Variant{}, variant.ErrNotFound
		}
		return variant.Variant{}, err
	}
	v.ParsedData = []byte(parsed)
	v.CreatedAt = createdAt.UTC()
	v.UpdatedAt = updatedAt.UTC()
	return v, nil
}
