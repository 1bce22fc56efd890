package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors used by repository/use cases
var (
	ErrNotFound     = errors.New("user not found")
	ErrUnauthorized = errors.New("invalid or expired identity token")
)

// UserRepository abstracts persistence of mirrored users.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByExternalID(ctx context.Context, externalID string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	SetSelectedResume(ctx context.Context, userID, variantID uuid.UUID) error
}

// Verifier checks an identity token with the provider and returns the
// account profile it belongs to.
type Verifier interface {
	Account(ctx context.Context, token string) (Account, error)
}
