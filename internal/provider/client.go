// Package provider implements the client for the external managed
// identity provider. The provider owns credentials and email
// verification; this service only consumes its REST API.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Identity is the provider's authentication record. It is distinct
// from the application profile: the provider may create the profile
// row asynchronously via a trigger, outside this service's control.
type Identity struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
}

// EmailConfirmed reports whether the provider has verified the email.
func (i *Identity) EmailConfirmed() bool {
	return i.EmailConfirmedAt != nil && !i.EmailConfirmedAt.IsZero()
}

// Metadata is provisioning data embedded in the identity record. The
// provider's signup trigger copies it into the profile row.
type Metadata struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// Error is a rejection reported by the provider. The upstream message
// is preserved so the caller sees why the identity request failed
// (duplicate email, weak password, and so on).
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("auth provider rejected request (%d): %s", e.StatusCode, e.Message)
}

// Client defines the identity operations this service depends on.
type Client interface {
	SignUp(ctx context.Context, email, password string, meta Metadata) (*Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Identity, error)
	ResetPasswordForEmail(ctx context.Context, email string) error
}

// HTTPClient talks to a GoTrue-compatible identity API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewHTTPClient creates a provider client for the given base URL and
// service API key.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type signUpRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Data     Metadata `json:"data"`
}

// signUpResponse covers both provider response shapes: the identity at
// the top level, or nested under "user" when a session is included.
type signUpResponse struct {
	Identity
	User *Identity `json:"user,omitempty"`
}

func (r *signUpResponse) identity() *Identity {
	if r.User != nil {
		return r.User
	}
	if r.ID == uuid.Nil && r.Email == "" {
		return nil
	}
	return &r.Identity
}

// SignUp requests creation of a new identity. Provisioning metadata is
// embedded so the provider-side trigger can materialize the profile row.
func (c *HTTPClient) SignUp(ctx context.Context, email, password string, meta Metadata) (*Identity, error) {
	body := signUpRequest{Email: email, Password: password, Data: meta}

	var resp signUpResponse
	if err := c.post(ctx, "/auth/v1/signup", body, &resp); err != nil {
		return nil, err
	}
	return resp.identity(), nil
}

type passwordGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordGrantResponse struct {
	AccessToken string    `json:"access_token"`
	User        *Identity `json:"user"`
}

// SignInWithPassword verifies credentials with the provider and returns
// the authenticated identity.
func (c *HTTPClient) SignInWithPassword(ctx context.Context, email, password string) (*Identity, error) {
	body := passwordGrantRequest{Email: email, Password: password}

	var resp passwordGrantResponse
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", body, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &Error{StatusCode: http.StatusBadGateway, Message: "provider returned no identity"}
	}
	return resp.User, nil
}

type recoverRequest struct {
	Email string `json:"email"`
}

// ResetPasswordForEmail asks the provider to start its password
// recovery flow for the address.
func (c *HTTPClient) ResetPasswordForEmail(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/v1/recover", recoverRequest{Email: email}, nil)
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &Error{StatusCode: resp.StatusCode, Message: providerMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}

// providerMessage extracts a human-readable error from the provider's
// response body, which uses a handful of different field names.
func providerMessage(data []byte) string {
	var body struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Err              string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		for _, msg := range []string{body.Message, body.Msg, body.ErrorDescription, body.Err} {
			if msg != "" {
				return msg
			}
		}
	}
	return "request rejected"
}
