package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bookstore-admin/pkg/jwt"
)

// TokenSource supplies the bearer credential attached to every upstream
// request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ReauthFunc is invoked when the upstream answers 401: the hook routes the
// user back to the login flow. It must not block.
type ReauthFunc func()

// StaticTokenSource returns a source that always yields the same token.
func StaticTokenSource(token string) TokenSource {
	return staticSource(token)
}

type staticSource string

func (s staticSource) Token(_ context.Context) (string, error) {
	return string(s), nil
}

// RefreshingTokenSource holds an access/refresh token pair and renews the
// access token through the upstream refresh endpoint before it expires.
// The console has no signing key, so expiry is read from the unverified
// exp claim.
type RefreshingTokenSource struct {
	mu      sync.Mutex
	access  string
	refresh string

	refreshURL string
	httpClient *http.Client
	leeway     time.Duration
	now        func() time.Time
}

func NewRefreshingTokenSource(refreshURL, accessToken, refreshToken string, leeway time.Duration) *RefreshingTokenSource {
	return &RefreshingTokenSource{
		access:     accessToken,
		refresh:    refreshToken,
		refreshURL: refreshURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		leeway:     leeway,
		now:        time.Now,
	}
}

func (s *RefreshingTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.access != "" && !s.expiringSoon() {
		return s.access, nil
	}

	if err := s.refreshLocked(ctx); err != nil {
		return "", err
	}
	return s.access, nil
}

// SetTokens replaces the pair, e.g. after a fresh login.
func (s *RefreshingTokenSource) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = accessToken
	s.refresh = refreshToken
}

func (s *RefreshingTokenSource) expiringSoon() bool {
	exp, err := jwt.ExpiresAt(s.access)
	if err != nil {
		// Opaque token: let the server decide.
		return false
	}
	return s.now().Add(s.leeway).After(exp)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *RefreshingTokenSource) refreshLocked(ctx context.Context) error {
	if s.refresh == "" {
		return fmt.Errorf("no refresh token available")
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: s.refresh})
	if err != nil {
		return fmt.Errorf("marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.refreshURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh token: upstream returned %d", resp.StatusCode)
	}

	var parsed refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if parsed.AccessToken == "" {
		return fmt.Errorf("refresh response missing access token")
	}

	s.access = parsed.AccessToken
	if parsed.RefreshToken != "" {
		s.refresh = parsed.RefreshToken
	}
	return nil
}
