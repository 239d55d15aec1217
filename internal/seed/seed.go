// Package seed fetches the initial task list used to populate an empty store.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultURL is the public placeholder todo endpoint.
	DefaultURL = "https://jsonplaceholder.typicode.com/todos"
	// DefaultLimit is the number of records requested.
	DefaultLimit = 5

	limitParam = "_limit"
)

// ErrUnexpectedStatus is returned for any non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected seed response status")

// Source returns the raw JSON array used to seed an empty store.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource fetches the seed list with a single GET. There is no retry.
type HTTPSource struct {
	URL   string
	Limit int
	// Timeout bounds the request. Zero means none beyond ctx.
	Timeout time.Duration

	client *http.Client
}

// NewHTTPSource returns an HTTPSource using http.DefaultClient.
func NewHTTPSource(rawURL string, limit int, timeout time.Duration) *HTTPSource {
	return &HTTPSource{URL: rawURL, Limit: limit, Timeout: timeout, client: http.DefaultClient}
}

// WithClient replaces the HTTP client. Returns s for chaining.
func (s *HTTPSource) WithClient(c *http.Client) *HTTPSource {
	s.client = c
	return s
}

// RequestURL returns URL with the limit query parameter applied.
func (s *HTTPSource) RequestURL() (string, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse seed url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("seed url must be http or https, got %q", s.URL)
	}
	if s.Limit > 0 {
		q := u.Query()
		q.Set(limitParam, strconv.Itoa(s.Limit))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Fetch issues the GET and returns the response body unchanged.
//
// Returns ErrUnexpectedStatus (wrapped) for a non-2xx status and an error
// when the body is not a JSON array.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	target, err := s.RequestURL()
	if err != nil {
		return nil, err
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create seed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := checkArray(body); err != nil {
		return nil, err
	}
	return body, nil
}

func checkArray(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' || !json.Valid(trimmed) {
		return fmt.Errorf("seed response is not a JSON array")
	}
	return nil
}

// Static is a Source returning fixed bytes. An empty Static fails.
type Static []byte

// Fetch returns a copy of the bytes.
func (s Static) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("no seed data configured")
	}
	out := make([]byte, len(s))
	copy(out, s)
	return out, nil
}
