// Package summarize condenses one search hit into a short, query-relevant summary.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/codex-k8s/toolgate-mcp-server/internal/constants"
	"github.com/codex-k8s/toolgate-mcp-server/internal/metrics"
	"github.com/codex-k8s/toolgate-mcp-server/internal/search"
)

// Placeholder contents.
const (
	NoContent          = "No content available"
	ContentUnavailable = "Content unavailable"
)

const systemPrompt = "You are a research assistant. Summarize web content accurately and concisely, keeping only information relevant to the research query. Do not invent facts."

var errEmptySummary = errors.New("model returned an empty summary")

// Item is the summarized form of one hit.
type Item struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Worker summarizes hits with a chat model. A nil Model makes every summary fall back to raw text.
type Worker struct {
	// Model generates summaries.
	Model model.BaseChatModel
	// MinChars is the raw text length below which the model is not called.
	MinChars int
	// MaxInputChars truncates raw text in the prompt.
	MaxInputChars int
	// FallbackChars is the raw text prefix used when the model fails.
	FallbackChars int
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Metrics records summary outcomes.
	Metrics metrics.Recorder
}

// Summarize never fails: model errors are logged and replaced by a raw-text fallback.
func (w Worker) Summarize(ctx context.Context, query string, hit search.Hit) Item {
	item := Item{Title: hit.Title, URL: hit.URL}
	recorder := metrics.OrNoop(w.Metrics)

	if hit.RawText == "" || utf8.RuneCountInString(hit.RawText) < w.minChars() {
		item.Content = hit.RawText
		if item.Content == "" {
			item.Content = NoContent
		}
		recorder.ObserveSummary(metrics.SummarySkipped, 0)
		return item
	}

	started := time.Now()
	summary, err := w.generate(ctx, query, hit)
	if err != nil {
		if w.Logger != nil {
			w.Logger.Warn("summarization failed, using raw text", "url", hit.URL, "error", err)
		}
		recorder.ObserveSummary(metrics.SummaryFallback, time.Since(started))
		item.Content = w.fallback(hit.RawText)
		return item
	}

	recorder.ObserveSummary(metrics.SummaryGenerated, time.Since(started))
	item.Content = summary
	return item
}

func (w Worker) generate(ctx context.Context, query string, hit search.Hit) (string, error) {
	if w.Model == nil {
		return "", errors.New("no summarization model configured")
	}
	response, err := w.Model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(BuildPrompt(query, hit, w.maxInputChars())),
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", errEmptySummary
	}
	return strings.TrimSpace(response.Content), nil
}

func (w Worker) fallback(raw string) string {
	if raw == "" {
		return ContentUnavailable
	}
	return truncate(raw, w.fallbackChars()) + "..."
}

// BuildPrompt renders the user prompt for one hit, with raw text cut to maxChars code points.
func BuildPrompt(query string, hit search.Hit, maxChars int) string {
	title := hit.Title
	if title == "" {
		title = "No title"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Please summarize the following web content for research query: \"%s\"\n\n", query)
	fmt.Fprintf(&b, "Title: %s\n", title)
	fmt.Fprintf(&b, "URL: %s\n", hit.URL)
	fmt.Fprintf(&b, "Content: %s...\n\n", truncate(hit.RawText, maxChars))
	b.WriteString("Provide a concise summary that captures the key information relevant to the research query.")
	return b.String()
}

func truncate(value string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(value) <= maxChars {
		return value
	}
	runes := []rune(value)
	return string(runes[:maxChars])
}

func (w Worker) minChars() int {
	if w.MinChars > 0 {
		return w.MinChars
	}
	return constants.DefaultMinSummarizeChars
}

func (w Worker) maxInputChars() int {
	if w.MaxInputChars > 0 {
		return w.MaxInputChars
	}
	return constants.DefaultMaxInputChars
}

func (w Worker) fallbackChars() int {
	if w.FallbackChars > 0 {
		return w.FallbackChars
	}
	return constants.DefaultFallbackChars
}
