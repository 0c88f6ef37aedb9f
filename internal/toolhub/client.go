// Package toolhub is the HTTP client of the remote tool hub: catalogue listing,
// authorization status and tool execution.
package toolhub

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
)

const maxResponseBytes = 4 << 20

// Authorization statuses reported by the hub.
const (
	StatusCompleted  = "completed"
	StatusPending    = "pending"
	StatusNotStarted = "not_started"
	StatusFailed     = "failed"
)

// Client calls the tool hub API. The zero value is not usable; BaseURL and APIKey are required.
type Client struct {
	// BaseURL is the API root, e.g. "https://api.arcade.dev".
	BaseURL string
	// APIKey is sent as a bearer token.
	APIKey string
	// Timeout bounds each request when HTTPClient is nil.
	Timeout time.Duration
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
}

// StatusError reports a non-2xx hub response.
type StatusError struct {
	// Code is the HTTP status code.
	Code int
	// Body is the trimmed response body.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tool hub status %d", e.Code)
	}
	return fmt.Sprintf("tool hub status %d: %s", e.Code, e.Body)
}

func (c Client) do(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("tool hub base url is empty")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("tool hub api key is empty")
	}

	endpoint := strings.TrimRight(c.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.APIKey)
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(request)
	if err != nil {
		return fmt.Errorf("tool hub request failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid tool hub response: %w", err)
	}
	return nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
