package identity

import (
	"time"

	"github.com/google/uuid"
)

// Provider is the sign-in method reported by the identity provider.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
	ProviderEmail  Provider = "email"
)

// User mirrors an identity-provider account inside our own store. The
// provider owns authentication; we own the portfolio-facing attributes.
type User struct {
	ID             uuid.UUID  `json:"id"`
	ExternalID     string     `json:"externalId"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Provider       Provider   `json:"provider"`
	Username       string     `json:"username"`
	SelectedResume *uuid.UUID `json:"selectedResume,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Account is the profile returned by the provider for a verified token.
type Account struct {
	ID       string
	Email    string
	Name     string
	Provider string
}

// AuthContext carries a verified identity through a single request. It is
// resolved once by the middleware and passed explicitly; there is no ambient
// token fallback chain.
type AuthContext struct {
	Token      string
	ExternalID string
}
