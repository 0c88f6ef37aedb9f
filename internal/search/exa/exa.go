// Package exa is the Exa web search provider.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codex-k8s/toolgate-mcp-server/internal/search"
)

const maxResponseBytes = 8 << 20

// Client calls the Exa search API.
type Client struct {
	// BaseURL is the API root, e.g. "https://api.exa.ai".
	BaseURL string
	// APIKey is sent in the x-api-key header.
	APIKey string
	// Timeout bounds each request when HTTPClient is nil.
	Timeout time.Duration
	// HTTPClient overrides the transport.
	HTTPClient *http.Client
}

type searchRequest struct {
	Query      string   `json:"query"`
	NumResults int      `json:"numResults,omitempty"`
	Contents   contents `json:"contents"`
}

type contents struct {
	Text      bool   `json:"text"`
	LiveCrawl string `json:"livecrawl,omitempty"`
}

type searchResponse struct {
	Results []result `json:"results"`
}

type result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// Search runs one query and returns the hits with their page text.
func (c Client) Search(ctx context.Context, req search.Request) ([]search.Hit, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New(search.ReasonMissingAPIKey)
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, errors.New("search base url is empty")
	}

	payload := searchRequest{
		Query:      req.Query,
		NumResults: req.MaxResults,
		Contents:   contents{Text: true},
	}
	if req.LiveCrawl {
		payload.Contents.LiveCrawl = "always"
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.BaseURL, "/")+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("x-api-key", c.APIKey)

	resp, err := c.httpClient().Do(request)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid search response: %w", err)
	}

	hits := make([]search.Hit, 0, len(parsed.Results))
	for _, item := range parsed.Results {
		hits = append(hits, search.Hit{Title: item.Title, URL: item.URL, RawText: item.Text})
	}
	return hits, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

var _ search.Provider = Client{}
