package appwrite

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/craftfolio/server/pkg/identity"
)

func TestAccount(t *testing.T) {
	var gotJWT, gotProject string
	var gotKey []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotJWT = r.Header.Get("X-Appwrite-JWT")
		gotProject = r.Header.Get("X-Appwrite-Project")
		gotKey = r.Header.Values("X-Appwrite-Key")
		_, _ = w.Write([]byte(`{"$id":"u-123","email":"jane@example.com","name":"Jane Doe","providers":["github"]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "proj-1")
	acc, err := c.Account(context.Background(), "jwt-token")
	if err != nil {
		t.Fatalf("account: %v", err)
	}
	if acc.ID != "u-123" || acc.Email != "jane@example.com" || acc.Provider != "github" {
		t.Errorf("account = %+v", acc)
	}
	if gotJWT != "jwt-token" || gotProject != "proj-1" {
		t.Errorf("headers = %q %q", gotJWT, gotProject)
	}
	// An API key on this call would demote it to the app role, which cannot
	// read accounts; the JWT must be the only credential.
	if len(gotKey) != 0 {
		t.Errorf("X-Appwrite-Key sent on account lookup: %v", gotKey)
	}
}

func TestAccountUnauthorized(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http 401", status: http.StatusUnauthorized, body: `{"message":"Invalid token"}`},
		{name: "http 403", status: http.StatusForbidden, body: `{}`},
		{name: "missing id in body", status: http.StatusOK, body: `{"email":"x@y.z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, "proj-1")
			_, err := c.Account(context.Background(), "bad")
			if !errors.Is(err, identity.ErrUnauthorized) {
				t.Fatalf("err = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestAccountServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "proj-1")
	_, err := c.Account(context.Background(), "jwt")
	if err == nil {
		t.Fatal("expected error for http 500")
	}
	if errors.Is(err, identity.ErrUnauthorized) {
		t.Fatalf("err = %v, must not map 5xx to unauthorized", err)
	}
}

func TestAccountRequiresProjectID(t *testing.T) {
	c := New("", "")
	if _, err := c.Account(context.Background(), "jwt"); err == nil {
		t.Fatal("expected error for empty project id")
	}
}
