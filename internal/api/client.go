package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/httputil"
	"github.com/banshee-data/coverage.report/internal/scenario"
)

// RemoteError is a non-200 answer from a coverage server.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("coverage server returned %d: %s", e.StatusCode, e.Message)
}

// Is matches coverage.ErrInvalidRange for a 422 answer, which the server
// sends only for inverted sensor bounds.
func (e *RemoteError) Is(target error) bool {
	return target == coverage.ErrInvalidRange && e.StatusCode == http.StatusUnprocessableEntity
}

// Client submits scenarios to a remote coverage server.
type Client struct {
	http    httputil.HTTPClient
	baseURL string
}

func NewClient(c httputil.HTTPClient, baseURL string) *Client {
	return &Client{http: c, baseURL: strings.TrimRight(baseURL, "/")}
}

// Check posts s to the server's check endpoint and returns its decision.
func (c *Client) Check(ctx context.Context, s *scenario.Scenario) (*CheckResponse, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/coverage/check", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post scenario %q: %w", s.Name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, httputil.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(data))
		}
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	var out CheckResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
