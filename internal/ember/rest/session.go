package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/ember-core/internal/infrastructure/config"
	"github.com/nerrad567/ember-core/internal/infrastructure/logging"
)

const (
	// tokenValidity is how long an access token stays usable after issue.
	tokenValidity = 1800 * time.Second

	// refreshSafetyMargin is how close to expiry a token may get before a
	// proactive refresh. Refresh happens before rejection, not after.
	refreshSafetyMargin = 30 * time.Second
)

// Session is an authenticated connection to the Ember REST API.
//
// It moves between two states: anonymous and authenticated. Login issues
// the first token; every authenticated request first ensures the token is
// fresh, refreshing proactively with the refresh token when the validity
// window is about to close. Reset drops back to anonymous.
//
// Thread Safety:
//   - All methods are safe for concurrent use. A single mutex serialises
//     the authenticated call path, so at most one refresh is in flight.
type Session struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	log      *logging.Logger

	mu           sync.Mutex
	token        string
	refreshToken string
	issuedAt     time.Time
	userID       string

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// Credentials are what the push transport needs to authenticate against
// the broker.
type Credentials struct {
	UserID string
	Token  string
}

// envelope is the JSON shape every API response shares. The business
// status is independent of the HTTP status: HTTP 200 with a non-zero
// status field is a business failure, not a transport failure.
type envelope struct {
	Status    int             `json:"status"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// tokenData is the credential block inside login and refresh responses.
type tokenData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// New creates a Session for the given account. No network traffic happens
// until Login or the first authenticated request.
func New(cfg config.EmberConfig, log *logging.Logger) *Session {
	return &Session{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		http: &http.Client{
			Timeout: time.Duration(cfg.HTTPTimeout) * time.Second,
		},
		log: log.With("component", "rest"),
		now: time.Now,
	}
}

// Login authenticates with username and password and records the token
// issue time. A non-zero business status or a response without a token
// is reported as ErrLoginFailed.
func (s *Session) Login(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.login(ctx)
}

// login is the lock-held implementation of Login.
func (s *Session) login(ctx context.Context) error {
	s.clearAuth()

	env, err := s.do(ctx, http.MethodPost, "appLogin/login", map[string]string{
		"userName": s.username,
		"password": s.password,
	}, "")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if env.Status != 0 {
		return fmt.Errorf("%w: status %d", ErrLoginFailed, env.Status)
	}

	var data tokenData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		return fmt.Errorf("%w: no token in response", ErrLoginFailed)
	}

	s.token = data.Token
	s.refreshToken = data.RefreshToken
	s.issuedAt = s.now()
	s.log.Info("logged in", "user", s.username)
	return nil
}

// Reset drops the session back to anonymous, forcing a password login on
// the next authenticated request.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearAuth()
}

func (s *Session) clearAuth() {
	s.token = ""
	s.refreshToken = ""
	s.issuedAt = time.Time{}
}

// ensureFresh makes sure an access token is available and not about to
// expire. Anonymous sessions log in; sessions within the safety margin of
// expiry refresh with the refresh token. A refresh failure is reported,
// not retried.
func (s *Session) ensureFresh(ctx context.Context) error {
	if s.token == "" {
		return s.login(ctx)
	}

	expiresAt := s.issuedAt.Add(tokenValidity)
	if expiresAt.After(s.now().Add(refreshSafetyMargin)) {
		return nil // comfortably within the validity window
	}

	env, err := s.do(ctx, http.MethodGet, "appLogin/refreshAccessToken", nil, s.refreshToken)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	var data tokenData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		return fmt.Errorf("%w: no token in response", ErrRefreshFailed)
	}

	s.token = data.Token
	s.refreshToken = data.RefreshToken
	s.issuedAt = s.now()
	s.log.Debug("access token refreshed")
	return nil
}

// request performs an authenticated API call, refreshing the token first
// if needed, and checks the business status field.
func (s *Session) request(ctx context.Context, method, endpoint string, body any) (*envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}

	env, err := s.do(ctx, method, endpoint, body, s.token)
	if err != nil {
		return nil, err
	}
	if env.Status != 0 {
		return nil, fmt.Errorf("%w: status %d from %s", ErrStatus, env.Status, endpoint)
	}
	return env, nil
}

// do performs one HTTP exchange against the API. A non-200 HTTP status is
// a hard transport failure, distinguishable from a business failure
// signalled inside the JSON body.
func (s *Session) do(ctx context.Context, method, endpoint string, body any, authorization string) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d response from %s", ErrTransport, resp.StatusCode, endpoint)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decoding %s response: %w", ErrTransport, endpoint, err)
	}
	return &env, nil
}
