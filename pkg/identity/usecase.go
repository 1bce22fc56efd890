package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SyncUseCase upserts the mirrored user for a verified identity token.
type SyncUseCase interface {
	Sync(ctx context.Context, identityToken string) (User, error)
}

type syncService struct {
	repo     UserRepository
	provider Verifier
}

// NewSyncService returns the default implementation of SyncUseCase.
func NewSyncService(repo UserRepository, provider Verifier) SyncUseCase {
	return &syncService{repo: repo, provider: provider}
}

func (s *syncService) Sync(ctx context.Context, identityToken string) (User, error) {
	if strings.TrimSpace(identityToken) == "" {
		return User{}, ErrUnauthorized
	}
	acc, err := s.provider.Account(ctx, identityToken)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	existing, err := s.repo.GetByExternalID(ctx, acc.ID)
	switch {
	case err == nil:
		existing.Email = strings.ToLower(acc.Email)
		existing.Name = acc.Name
		existing.Provider = providerOrDefault(acc.Provider)
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return User{}, err
		}
		return existing, nil
	case errors.Is(err, ErrNotFound):
		username, err := s.deriveUsername(ctx, acc.Email)
		if err != nil {
			return User{}, err
		}
		user := User{
			ID:         uuid.New(),
			ExternalID: acc.ID,
			Email:      strings.ToLower(acc.Email),
			Name:       acc.Name,
			Provider:   providerOrDefault(acc.Provider),
			Username:   username,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return User{}, err
		}
		return user, nil
	default:
		return User{}, err
	}
}

// deriveUsername builds a unique public handle from the email local part,
// appending a counter until it is free.
func (s *syncService) deriveUsername(ctx context.Context, email string) (string, error) {
	base := "user"
	if at := strings.Index(email, "@"); at > 0 {
		base = strings.ToLower(email[:at])
	}
	username := base
	for counter := 1; ; counter++ {
		taken, err := s.repo.UsernameTaken(ctx, username)
		if err != nil {
			return "", err
		}
		if !taken {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, counter)
	}
}

func providerOrDefault(p string) Provider {
	switch Provider(p) {
	case ProviderGitHub:
		return ProviderGitHub
	case ProviderEmail:
		return ProviderEmail
	default:
		return ProviderGoogle
	}
}
