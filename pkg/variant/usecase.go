package variant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/craftfolio/server/pkg/identity"
	"github.com/craftfolio/server/pkg/portfolio"
)

// UseCase is the application surface over stored variants.
type UseCase interface {
	Create(ctx context.Context, userID uuid.UUID, name string, parsedData json.RawMessage) (Variant, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Variant, error)
	FindByID(ctx context.Context, id uuid.UUID) (Variant, error)
	Rename(ctx context.Context, userID, id uuid.UUID, name string) (Variant, error)
	SelectDefault(ctx context.Context, userID, id uuid.UUID) error
	SelectedForUsername(ctx context.Context, username string) (*Variant, error)
}

type service struct {
	repo  Repository
	users identity.UserRepository
}

// NewService returns the default implementation of UseCase.
func NewService(repo Repository, users identity.UserRepository) UseCase {
	return &service{repo: repo, users: users}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, name string, parsedData json.RawMessage) (Variant, error) {
	if strings.TrimSpace(name) == "" || len(parsedData) == 0 {
		return Variant{}, fmt.Errorf("%w: name and parsedData are required", ErrValidation)
	}
	if err := portfolio.Validate(parsedData); err != nil {
		return Variant{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	now := time.Now().UTC()
	v := Variant{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          strings.TrimSpace(name),
		ParsedData:    parsedData,
		SchemaVersion: portfolio.SchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return Variant{}, err
	}
	return v, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Variant, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (Variant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Rename(ctx context.Context, userID, id uuid.UUID, name string) (Variant, error) {
	if strings.TrimSpace(name) == "" {
		return Variant{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Variant{}, err
	}
	if v.UserID != userID {
		return Variant{}, ErrNotFound
	}
	return s.repo.UpdateName(ctx, id, strings.TrimSpace(name))
}

// SelectDefault sets the user's public-page pointer. The target variant must
// exist and belong to the user; dangling pointers are rejected here instead
// of silently rendering as "no resume" later.
func (s *service) SelectDefault(ctx context.Context, userID, id uuid.UUID) error {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v.UserID != userID {
		return ErrNotFound
	}
	return s.users.SetSelectedResume(ctx, userID, id)
}

// SelectedForUsername resolves the variant a public portfolio page renders.
// A missing user, an unset pointer or a dangling pointer all yield nil, not
// an error: the page shows a placeholder.
func (s *service) SelectedForUsername(ctx context.Context, username string) (*Variant, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if user.SelectedResume == nil {
		return nil, nil
	}
	v, err := s.repo.GetByID(ctx, *user.SelectedResume)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}
