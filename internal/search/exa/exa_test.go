package exa

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/toolgate-mcp-server/internal/search"
)

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "exa-key", r.Header.Get("x-api-key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "best restaurants in Tokyo 2024", req["query"])
		assert.Equal(t, 2.0, req["numResults"])
		assert.Equal(t, map[string]any{"text": true, "livecrawl": "always"}, req["contents"])

		_, _ = io.WriteString(w, `{"results":[
			{"title":"Sukiyabashi Jiro","url":"https://a.example","text":"Sushi"},
			{"title":null,"url":"https://b.example"}
		]}`)
	}))
	defer server.Close()

	client := Client{BaseURL: server.URL, APIKey: "exa-key", HTTPClient: server.Client()}
	hits, err := client.Search(context.Background(), search.Request{Query: "best restaurants in Tokyo 2024", MaxResults: 2, LiveCrawl: true})
	require.NoError(t, err)

	assert.Equal(t, []search.Hit{
		{Title: "Sukiyabashi Jiro", URL: "https://a.example", RawText: "Sushi"},
		{URL: "https://b.example"},
	}, hits)
}

func TestClient_SearchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := Client{BaseURL: server.URL, APIKey: "exa-key", HTTPClient: server.Client()}
	_, err := client.Search(context.Background(), search.Request{Query: "q"})
	assert.EqualError(t, err, "search status 429: quota exceeded")
}

func TestClient_MissingKeyMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := Client{BaseURL: server.URL}.Search(context.Background(), search.Request{Query: "q"})
	assert.EqualError(t, err, search.ReasonMissingAPIKey)
	assert.Zero(t, calls.Load())
}
