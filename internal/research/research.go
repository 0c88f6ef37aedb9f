// Package research runs one web search and summarizes every hit concurrently.
package research

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codex-k8s/toolgate-mcp-server/internal/metrics"
	"github.com/codex-k8s/toolgate-mcp-server/internal/search"
	"github.com/codex-k8s/toolgate-mcp-server/internal/summarize"
)

// Searcher runs the search step.
type Searcher interface {
	Search(ctx context.Context, query string) search.Results
}

// Summarizer condenses one hit and never fails.
type Summarizer interface {
	Summarize(ctx context.Context, query string, hit search.Hit) summarize.Item
}

// Result is the research tool output. Items keeps search order and is never nil.
type Result struct {
	Items []summarize.Item `json:"results"`
	Error string           `json:"error,omitempty"`
}

// Aggregator joins the search and summarization steps.
type Aggregator struct {
	// Searcher runs the query.
	Searcher Searcher
	// Summarizer condenses each hit.
	Summarizer Summarizer
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Metrics records run duration and item counts.
	Metrics metrics.Recorder
}

// Research searches once, then summarizes each hit in its own goroutine.
// Error is set only when the search step fails.
func (a Aggregator) Research(ctx context.Context, query string) Result {
	started := time.Now()
	recorder := metrics.OrNoop(a.Metrics)

	results := a.Searcher.Search(ctx, query)
	if results.Error != "" || len(results.Hits) == 0 {
		reason := results.Error
		if reason == "" {
			reason = search.ReasonNoResults
		}
		if a.Logger != nil {
			a.Logger.Info("research search returned nothing", "query", query, "error", reason)
		}
		recorder.ObserveResearch(time.Since(started), 0, true)
		return Result{Items: []summarize.Item{}, Error: reason}
	}

	items := make([]summarize.Item, len(results.Hits))
	var group errgroup.Group
	for i, hit := range results.Hits {
		group.Go(func() error {
			items[i] = a.Summarizer.Summarize(ctx, query, hit)
			return nil
		})
	}
	// tasks never return errors
	_ = group.Wait()

	if a.Logger != nil {
		a.Logger.Info("research completed", "query", query, "items", len(items), "duration", time.Since(started))
	}
	recorder.ObserveResearch(time.Since(started), len(items), false)
	return Result{Items: items}
}
