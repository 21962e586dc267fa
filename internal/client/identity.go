package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"veil/internal/model"
)

// IdentityClient talks to the external identity provider over HTTP. The
// provider owns the user lifecycle; this client only starts/ends sessions and
// observes the current user.
type IdentityClient struct {
	baseURL  string
	clientID string
	client   *http.Client

	mu    sync.Mutex
	token string
}

// NewIdentityClient creates a new identity provider client
func NewIdentityClient(baseURL, clientID string) *IdentityClient {
	return &IdentityClient{
		baseURL:  baseURL,
		clientID: clientID,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type sessionResponse struct {
	Token string          `json:"token"`
	User  *model.AuthUser `json:"user"`
}

// SignIn starts a provider session and returns the signed-in user.
func (c *IdentityClient) SignIn(ctx context.Context) (*model.AuthUser, error) {
	body, err := json.Marshal(map[string]string{"clientId": c.clientID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sign-in request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/session", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-in request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sign-in failed: status %d", resp.StatusCode)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	if session.User == nil {
		return nil, fmt.Errorf("sign-in response has no user")
	}

	c.mu.Lock()
	c.token = session.Token
	c.mu.Unlock()

	return session.User, nil
}

// SignOut ends the provider session.
func (c *IdentityClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/session", nil)
	if err != nil {
		return fmt.Errorf("failed to create sign-out request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sign-out request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("sign-out failed: status %d", resp.StatusCode)
	}

	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	return nil
}

// CurrentUser returns the provider's view of the current user, or nil when
// no session is active.
func (c *IdentityClient) CurrentUser(ctx context.Context) (*model.AuthUser, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user request failed: status %d", resp.StatusCode)
	}

	var user model.AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}

	return &user, nil
}
