package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"campus-connect-api/internal/model"
)

// ErrUnauthenticated means the session holds no usable credentials; callers
// should send the user to the login surface.
var ErrUnauthenticated = errors.New("unauthenticated")

// Session is the client-side counterpart of the auth API: it caches the
// credential token and profile in a CredentialStore, attaches the token to
// every outgoing request, and clears the cache whenever verification fails.
// The cache is advisory; the server remains the source of truth.
type Session struct {
	baseURL string
	client  *http.Client
	store   CredentialStore
}

func New(baseURL string, store CredentialStore) *Session {
	return &Session{
		baseURL: baseURL,
		client:  http.DefaultClient,
		store:   store,
	}
}

// NewWithClient is New with a caller-supplied http.Client, for timeouts and
// test transports.
func NewWithClient(baseURL string, store CredentialStore, client *http.Client) *Session {
	s := New(baseURL, store)
	if client != nil {
		s.client = client
	}
	return s
}

// Login authenticates and stores token plus profile. A failed login leaves
// the cache untouched.
func (s *Session) Login(ctx context.Context, email string, password string) (model.Profile, error) {
	var result model.AuthResult
	err := s.do(ctx, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return model.Profile{}, err
	}

	if err := s.store.Save(result.Token, result.User); err != nil {
		return model.Profile{}, fmt.Errorf("store credentials: %w", err)
	}
	return result.User, nil
}

// Signup registers an account and stores the issued credentials, exactly as
// Login does.
func (s *Session) Signup(ctx context.Context, name string, email string, password string, role model.Role) (model.Profile, error) {
	var result model.AuthResult
	err := s.do(ctx, http.MethodPost, "/api/auth/signup",
		model.SignupRequest{Name: name, Email: email, Password: password, Role: role.String()}, &result)
	if err != nil {
		return model.Profile{}, err
	}

	if err := s.store.Save(result.Token, result.User); err != nil {
		return model.Profile{}, fmt.Errorf("store credentials: %w", err)
	}
	return result.User, nil
}

// VerifyAuth checks the cached token against the server. On success the
// stored profile is refreshed, so out-of-band role changes are picked up. On
// any failure the cache is cleared and ErrUnauthenticated returned. With no
// cached token it fails immediately without a network call.
func (s *Session) VerifyAuth(ctx context.Context) (model.Profile, error) {
	tok, _, err := s.store.Load()
	if err != nil {
		return model.Profile{}, fmt.Errorf("load credentials: %w", err)
	}
	if tok == "" {
		return model.Profile{}, ErrUnauthenticated
	}

	var result struct {
		User model.Profile `json:"user"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/auth/verify", nil, &result); err != nil {
		if clearErr := s.store.Clear(); clearErr != nil {
			return model.Profile{}, fmt.Errorf("clear credentials: %w", clearErr)
		}
		return model.Profile{}, ErrUnauthenticated
	}

	if err := s.store.Save(tok, result.User); err != nil {
		return model.Profile{}, fmt.Errorf("refresh profile: %w", err)
	}
	return result.User, nil
}

// Logout discards the cached credentials. Tokens are stateless so there is
// nothing to tell the server.
func (s *Session) Logout() error {
	return s.store.Clear()
}

// CurrentUser returns the cached profile without touching the network.
func (s *Session) CurrentUser() (model.Profile, bool) {
	_, user, err := s.store.Load()
	if err != nil || user == nil {
		return model.Profile{}, false
	}
	return *user, true
}

func (s *Session) IsAuthenticated() bool {
	tok, _, err := s.store.Load()
	return err == nil && tok != ""
}

// do sends a JSON request with the cached token attached when one exists and
// decodes the response envelope into out. API failures surface with the
// server's message unchanged.
func (s *Session) do(ctx context.Context, method string, path string, payload any, out any) error {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	tok, _, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
		Error   *model.APIError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !envelope.Success {
		message := envelope.Message
		if message == "" && envelope.Error != nil {
			message = envelope.Error.Message
		}
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return errors.New(message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
