package appwrite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/craftfolio/server/pkg/identity"
)

// Client is a minimal Appwrite REST client used to resolve the account a
// session JWT belongs to.
type Client struct {
	Endpoint  string
	ProjectID string
	httpDo    *http.Client
}

func New(endpoint, projectID string) *Client {
	if endpoint == "" {
		endpoint = "https://cloud.appwrite.io/v1"
	}
	return &Client{
		Endpoint:  strings.TrimRight(endpoint, "/"),
		ProjectID: projectID,
		httpDo: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type accountResponse struct {
	ID        string   `json:"$id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Providers []string `json:"providers"`
}

// Account verifies the token against GET /account and returns the profile.
// A 401 from the provider maps to identity.ErrUnauthorized.
func (c *Client) Account(ctx context.Context, token string) (identity.Account, error) {
	if c.ProjectID == "" {
		return identity.Account{}, errors.New("appwrite project id is empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"/account", nil)
	if err != nil {
		return identity.Account{}, err
	}
	// Only the session JWT authenticates this call. An API key would switch
	// the request to the app role, which has no account scope, and the
	// lookup would 401 for every valid user token.
	req.Header.Set("X-Appwrite-Project", c.ProjectID)
	req.Header.Set("X-Appwrite-JWT", token)

	resp, err := c.httpDo.Do(req)
	if err != nil {
		return identity.Account{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return identity.Account{}, identity.ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMap map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errMap)
		return identity.Account{}, fmt.Errorf("appwrite http %d: %v", resp.StatusCode, errMap)
	}
	var out accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return identity.Account{}, err
	}
	if out.ID == "" {
		return identity.Account{}, identity.ErrUnauthorized
	}
	acc := identity.Account{ID: out.ID, Email: out.Email, Name: out.Name}
	if len(out.Providers) > 0 {
		acc.Provider = out.Providers[0]
	}
	return acc, nil
}
