package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the hosted identity provider's REST endpoints. The provider
// owns all credential material; this side never stores a password or hash.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Account is the subset of the provider response the service needs.
type Account struct {
	UID     string
	Email   string
	IDToken string
}

// APIError is a non-2xx provider response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity provider status %d: %s", e.StatusCode, e.Message)
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SignUp creates a new account. Single attempt, no retry.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Account, error) {
	return c.post(ctx, "/accounts:signUp", email, password)
}

// SignIn verifies an email/password pair against the provider.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Account, error) {
	return c.post(ctx, "/accounts:signInWithPassword", email, password)
}

func (c *Client) post(ctx context.Context, path, email, password string) (*Account, error) {
	reqBody := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal identity request failed: %w", err)
	}

	url := c.baseURL + path + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build identity request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read identity response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		var parsed struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(raw, &parsed)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: parsed.Error.Message}
	}

	var parsed struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
		IDToken string `json:"idToken"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse identity response failed: %w", err)
	}
	if parsed.LocalID == "" {
		return nil, fmt.Errorf("identity response missing user id")
	}

	return &Account{
		UID:     parsed.LocalID,
		Email:   parsed.Email,
		IDToken: parsed.IDToken,
	}, nil
}
