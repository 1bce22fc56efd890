package variant

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors used by repository/use cases
var (
	ErrNotFound   = errors.New("variant not found")
	ErrValidation = errors.New("invalid variant input")
)

// Repository abstracts persistence of resume variants. Each operation is a
// single atomic statement at the storage layer.
type Repository interface {
	Create(ctx context.Context, v Variant) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Variant, error)
	GetByID(ctx context.Context, id uuid.UUID) (Variant, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (Variant, error)
}
