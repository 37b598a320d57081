// Package lineupapi is the HTTP client of the lineup service: it fetches the
// lineup feed and syncs likes lists.
package lineupapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dj-lineup/internal/lineup"
)

// Fetcher is implemented by *Client and faked in tests.
type Fetcher interface {
	FetchLineup(ctx context.Context) (lineup.Data, error)
	SyncLikes(ctx context.Context, token string, likes []lineup.Like) (string, []lineup.Like, error)
}

var _ Fetcher = (*Client)(nil)

// Client talks to the lineup HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "127.0.0.1:8082"
	defaultUserAgent = "dj-lineup/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the service at base ("host:port" or a URL).
func NewClient(base string) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchLineup retrieves the event configuration and all sets.
func (c *Client) FetchLineup(ctx context.Context) (lineup.Data, error) {
	var data lineup.Data
	if err := c.do(ctx, http.MethodGet, "/api", nil, &data); err != nil {
		return lineup.Data{}, err
	}
	return data, nil
}

// SyncLikes posts the whole likes list and returns the token and list the
// server kept. Callers replace their local state with the result.
func (c *Client) SyncLikes(ctx context.Context, token string, likes []lineup.Like) (string, []lineup.Like, error) {
	if likes == nil {
		likes = []lineup.Like{}
	}
	var resp lineup.LikesResponse
	req := lineup.LikesRequest{Token: token, Likes: likes}
	if err := c.do(ctx, http.MethodPost, "/api/likes", req, &resp); err != nil {
		return "", nil, err
	}
	return resp.Token, resp.Likes, nil
}

// APIError is a non-2xx answer of the service.
type APIError struct {
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), r)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Path: path, Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", base, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
