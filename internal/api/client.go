package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"bookstore-admin/internal/auth"
)

// Page is the upstream list envelope. Page is zero-based.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	Size       int `json:"size"`
}

// Client talks to the bookstore platform API. All calls attach the bearer
// credential from the token source; 5xx and transport failures are retried
// with bounded backoff, 4xx never are.
type Client struct {
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
	tokens       auth.TokenSource
	onUnauth     auth.ReauthFunc
	retryMax     int
	retryBase    time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenSource(ts auth.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithReauth installs the hook invoked on every 401 response.
func WithReauth(fn auth.ReauthFunc) Option {
	return func(c *Client) { c.onUnauth = fn }
}

// WithRetry sets how many extra attempts follow a retryable failure.
func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

// WithImageBaseURL sets the host used to resolve relative image paths.
// Defaults to the API base URL.
func WithImageBaseURL(base string) Option {
	return func(c *Client) { c.imageBaseURL = base }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		imageBaseURL: strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		retryMax:     2,
		retryBase:    200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorEnvelope matches the upstream error body.
type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, dest interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	attempts := c.retryMax + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := c.wait(ctx, attempt); err != nil {
				return &NetworkError{Err: err}
			}
			log.Debug().
				Str("method", method).
				Str("path", path).
				Int("attempt", attempt+1).
				Msg("retrying upstream request")
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		if c.tokens != nil {
			token, err := c.tokens.Token(ctx)
			if err != nil {
				return fmt.Errorf("obtain bearer token: %w", err)
			}
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return &NetworkError{Err: err}
			}
			lastErr = &NetworkError{Err: err}
			continue
		}

		httpErr := c.checkStatus(resp)
		if httpErr == nil {
			err := decodeBody(resp, dest)
			resp.Body.Close()
			return err
		}
		resp.Body.Close()

		if httpErr.Status == http.StatusUnauthorized && c.onUnauth != nil {
			c.onUnauth()
		}
		if httpErr.Status < 500 {
			return httpErr
		}
		lastErr = httpErr
	}

	return lastErr
}

// checkStatus returns nil for 2xx, a typed error otherwise. The body is
// consumed only on failure.
func (c *Client) checkStatus(resp *http.Response) *HTTPError {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	httpErr := &HTTPError{Status: resp.StatusCode}
	var envelope errorEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err == nil {
		if envelope.Error != nil {
			httpErr.Code = envelope.Error.Code
			httpErr.Message = envelope.Error.Message
		} else {
			httpErr.Message = envelope.Message
		}
	}
	return httpErr
}

func decodeBody(resp *http.Response, dest interface{}) error {
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// wait sleeps for the backoff of the given attempt, honoring ctx.
func (c *Client) wait(ctx context.Context, attempt int) error {
	delay := c.retryBase << (attempt - 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
