// Package search runs bounded, live-crawled web searches and reports failures as data.
package search

import (
	"context"
	"log/slog"
	"strings"
)

// Result messages returned to the research pipeline.
const (
	ReasonMissingAPIKey = "Missing API key"
	ReasonEmptyQuery    = "Empty query"
	ReasonNoResults     = "No results found"
)

// Hit is one search result. Empty Title or RawText means the provider returned none.
type Hit struct {
	Title   string
	URL     string
	RawText string
}

// Results is the outcome of one search. Hits is empty whenever Error is set.
type Results struct {
	Hits  []Hit
	Error string
}

// Request is what a provider receives.
type Request struct {
	// Query is the search query.
	Query string
	// MaxResults bounds the number of hits.
	MaxResults int
	// LiveCrawl asks the provider to fetch fresh page content.
	LiveCrawl bool
}

// Provider performs the remote search.
type Provider interface {
	Search(ctx context.Context, req Request) ([]Hit, error)
}

// Client wraps a provider with the credential check, result bound and error mapping.
type Client struct {
	// Provider performs the remote call.
	Provider Provider
	// HasCredential reports whether the provider API key is configured.
	HasCredential bool
	// MaxResults bounds the hit count.
	MaxResults int
	// Logger is used for structured logging.
	Logger *slog.Logger
}

// Search returns at most MaxResults hits. It never returns a Go error; failures land in Results.Error.
func (c Client) Search(ctx context.Context, query string) Results {
	if !c.HasCredential || c.Provider == nil {
		return Results{Hits: []Hit{}, Error: ReasonMissingAPIKey}
	}
	if strings.TrimSpace(query) == "" {
		return Results{Hits: []Hit{}, Error: ReasonEmptyQuery}
	}

	hits, err := c.Provider.Search(ctx, Request{Query: query, MaxResults: c.MaxResults, LiveCrawl: true})
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warn("search failed", "error", err)
		}
		return Results{Hits: []Hit{}, Error: err.Error()}
	}
	if len(hits) == 0 {
		return Results{Hits: []Hit{}, Error: ReasonNoResults}
	}
	if c.MaxResults > 0 && len(hits) > c.MaxResults {
		hits = hits[:c.MaxResults]
	}
	return Results{Hits: hits}
}
