// Package mock holds hand-written fakes shared by the package tests.
package mock

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/craftfolio/server/pkg/identity"
	"github.com/craftfolio/server/pkg/variant"
)

type Mocks struct {
	Users    *UserRepo
	Variants *VariantRepo
	Provider *Verifier
}

func NewMocks() *Mocks {
	return &Mocks{
		Users:    NewUserRepo(),
		Variants: &VariantRepo{},
		Provider: &Verifier{Accounts: map[string]identity.Account{}},
	}
}

// UserRepo is an in-memory identity.UserRepository.
type UserRepo struct {
	Users     map[uuid.UUID]identity.User
	CreateErr error
	UpdateErr error
}

func NewUserRepo() *UserRepo {
	return &UserRepo{Users: map[uuid.UUID]identity.User{}}
}

func (m *UserRepo) Create(ctx context.Context, user identity.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Users[user.ID] = user
	return nil
}

func (m *UserRepo) Update(ctx context.Context, user identity.User) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	existing, ok := m.Users[user.ID]
	if !ok {
		return identity.ErrNotFound
	}
	existing.Email = user.Email
	existing.Name = user.Name
	existing.Provider = user.Provider
	existing.UpdatedAt = user.UpdatedAt
	m.Users[user.ID] = existing
	return nil
}

func (m *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (identity.User, error) {
	if u, ok := m.Users[id]; ok {
		return u, nil
	}
	return identity.User{}, identity.ErrNotFound
}

func (m *UserRepo) GetByExternalID(ctx context.Context, externalID string) (identity.User, error) {
	for _, u := range m.Users {
		if u.ExternalID == externalID {
			return u, nil
		}
	}
	return identity.User{}, identity.ErrNotFound
}

func (m *UserRepo) GetByUsername(ctx context.Context, username string) (identity.User, error) {
	for _, u := range m.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return identity.User{}, identity.ErrNotFound
}

func (m *UserRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	for _, u := range m.Users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *UserRepo) SetSelectedResume(ctx context.Context, userID, variantID uuid.UUID) error {
	u, ok := m.Users[userID]
	if !ok {
		return identity.ErrNotFound
	}
	id := variantID
	u.SelectedResume = &id
	m.Users[userID] = u
	return nil
}

// VariantRepo is an in-memory variant.Repository.
type VariantRepo struct {
	Variants  []variant.Variant
	CreateErr error
}

func (m *VariantRepo) Create(ctx context.Context, v variant.Variant) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Variants = append(m.Variants, v)
	return nil
}

func (m *VariantRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]variant.Variant, error) {
	res := []variant.Variant{}
	for _, v := range m.Variants {
		if v.UserID == userID {
			res = append(res, v)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (m *VariantRepo) GetByID(ctx context.Context, id uuid.UUID) (variant.Variant, error) {
	for _, v := range m.Variants {
		if v.ID == id {
			return v, nil
		}
	}
	return variant.Variant{}, variant.ErrNotFound
}

func (m *VariantRepo) UpdateName(ctx context.Context, id uuid.UUID, name string) (variant.Variant, error) {
	for i, v := range m.Variants {
		if v.ID == id {
			m.Variants[i].Name = name
			return m.Variants[i], nil
		}
	}
	return variant.Variant{}, variant.ErrNotFound
}

// Verifier is a token-to-account table standing in for the identity provider.
type Verifier struct {
	Accounts map[string]identity.Account
	Err      error
	Calls    int
}

func (m *Verifier) Account(ctx context.Context, token string) (identity.Account, error) {
	m.Calls++
	if m.Err != nil {
		return identity.Account{}, m.Err
	}
	if acc, ok := m.Accounts[token]; ok {
		return acc, nil
	}
	return identity.Account{}, identity.ErrUnauthorized
}
