package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/craftfolio/server/pkg/identity"
	"github.com/craftfolio/server/pkg/repository/mock"
)

func TestSyncCreatesMirrorUser(t *testing.T) {
	m := mock.NewMocks()
	m.Provider.Accounts["tok-1"] = identity.Account{
		ID: "appwrite-1", Email: "Jane.Doe@Example.com", Name: "Jane Doe", Provider: "google",
	}
	svc := identity.NewSyncService(m.Users, m.Provider)

	user, err := svc.Sync(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if user.ExternalID != "appwrite-1" {
		t.Errorf("externalID = %q", user.ExternalID)
	}
	if user.Email != "jane.doe@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.Username != "jane.doe" {
		t.Errorf("username = %q, want derived from email local part", user.Username)
	}
	if user.Provider != identity.ProviderGoogle {
		t.Errorf("provider = %q", user.Provider)
	}
	if user.SelectedResume != nil {
		t.Error("new user must start with no selected resume")
	}
	if len(m.Users.Users) != 1 {
		t.Errorf("stored users = %d, want 1", len(m.Users.Users))
	}
}

func TestSyncUpdatesExistingUser(t *testing.T) {
	m := mock.NewMocks()
	id := uuid.New()
	sel := uuid.New()
	m.Users.Users[id] = identity.User{
		ID: id, ExternalID: "appwrite-1", Email: "old@example.com",
		Name: "Old Name", Username: "old", SelectedResume: &sel,
	}
	m.Provider.Accounts["tok-1"] = identity.Account{
		ID: "appwrite-1", Email: "new@example.com", Name: "New Name", Provider: "github",
	}
	svc := identity.NewSyncService(m.Users, m.Provider)

	user, err := svc.Sync(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if user.ID != id {
		t.Errorf("id = %s, want existing row reused", user.ID)
	}
	if user.Email != "new@example.com" || user.Name != "New Name" {
		t.Errorf("profile not refreshed: %+v", user)
	}
	if user.Username != "old" {
		t.Errorf("username = %q, must never change on re-sync", user.Username)
	}
	stored := m.Users.Users[id]
	if stored.SelectedResume == nil || *stored.SelectedResume != sel {
		t.Error("selected resume pointer lost on re-sync")
	}
	if len(m.Users.Users) != 1 {
		t.Errorf("stored users = %d, want 1 (no duplicate)", len(m.Users.Users))
	}
}

func TestSyncDerivesUniqueUsername(t *testing.T) {
	m := mock.NewMocks()
	a, b := uuid.New(), uuid.New()
	m.Users.Users[a] = identity.User{ID: a, ExternalID: "x1", Username: "jane"}
	m.Users.Users[b] = identity.User{ID: b, ExternalID: "x2", Username: "jane1"}
	m.Provider.Accounts["tok"] = identity.Account{ID: "x3", Email: "jane@other.org", Name: "Jane"}
	svc := identity.NewSyncService(m.Users, m.Provider)

	user, err := svc.Sync(context.Background(), "tok")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if user.Username != "jane2" {
		t.Errorf("username = %q, want jane2", user.Username)
	}
}

func TestSyncRejectsBadTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "whitespace token", token: "   "},
		{name: "unknown token", token: "forged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.NewMocks()
			svc := identity.NewSyncService(m.Users, m.Provider)
			_, err := svc.Sync(context.Background(), tt.token)
			if !errors.Is(err, identity.ErrUnauthorized) {
				t.Fatalf("err = %v, want ErrUnauthorized", err)
			}
			if len(m.Users.Users) != 0 {
				t.Error("user created despite failed verification")
			}
		})
	}
}

func TestSyncEmptyTokenSkipsProvider(t *testing.T) {
	m := mock.NewMocks()
	svc := identity.NewSyncService(m.Users, m.Provider)
	if _, err := svc.Sync(context.Background(), ""); !errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("err = %v", err)
	}
	if m.Provider.Calls != 0 {
		t.Errorf("provider called %d times for empty token", m.Provider.Calls)
	}
}
