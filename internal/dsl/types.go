package dsl

// Config is the top-level YAML configuration.
type Config struct {
	// Server describes the MCP server settings.
	Server ServerConfig `yaml:"server"`
	// Catalogues lists the remote tool catalogues loaded at startup.
	Catalogues []CatalogueConfig `yaml:"catalogues"`
	// Limits bounds how often catalogue tools may be invoked.
	Limits LimitsConfig `yaml:"limits"`
	// Research configures the web research tool.
	Research ResearchConfig `yaml:"research"`
}

// ServerConfig defines MCP server settings.
type ServerConfig struct {
	// Name is the MCP server name.
	Name string `yaml:"name"`
	// Version is the MCP server version.
	Version string `yaml:"version"`
	// Transport selects the server transport ("http" or "stdio").
	Transport string `yaml:"transport"`
	// ShutdownTimeout overrides graceful shutdown duration.
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	// HTTP configures HTTP transport.
	HTTP HTTPConfig `yaml:"http"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// Path is the MCP HTTP endpoint path.
	Path string `yaml:"path"`
	// MetricsPath exposes Prometheus metrics; empty disables the endpoint.
	MetricsPath string `yaml:"metrics_path"`
	// ReadTimeout limits request read time.
	ReadTimeout string `yaml:"read_timeout"`
	// WriteTimeout limits response write time.
	WriteTimeout string `yaml:"write_timeout"`
	// IdleTimeout controls idle connections.
	IdleTimeout string `yaml:"idle_timeout"`
	// Stateless disables session tracking.
	Stateless bool `yaml:"stateless"`
}

// CatalogueConfig names one remote catalogue (toolkit) and how many tools to fetch from it.
type CatalogueConfig struct {
	// Name is the remote catalogue name, e.g. "Gmail".
	Name string `yaml:"name"`
	// Limit bounds the number of descriptors fetched.
	Limit int `yaml:"limit"`
}

// LimitsConfig applies call limits to every catalogue tool, with optional per-tool overrides.
type LimitsConfig struct {
	// MaxTotal limits total calls per tool for the process lifetime.
	MaxTotal int `yaml:"max_total"`
	// RatePerMinute limits calls per tool per minute.
	RatePerMinute int `yaml:"rate_per_minute"`
	// Tools overrides limits by tool id.
	Tools map[string]ToolLimitConfig `yaml:"tools"`
}

// ToolLimitConfig overrides limits for a single tool.
type ToolLimitConfig struct {
	// MaxTotal limits total calls.
	MaxTotal int `yaml:"max_total"`
	// RatePerMinute limits calls per minute.
	RatePerMinute int `yaml:"rate_per_minute"`
}

// ResearchConfig configures the search-and-summarize pipeline.
type ResearchConfig struct {
	// Disabled removes the research tool from the server.
	Disabled bool `yaml:"disabled"`
	// ToolName is the MCP tool name.
	ToolName string `yaml:"tool_name"`
	// Description explains the tool for the agent.
	Description string `yaml:"description"`
	// MaxResults bounds the number of search hits.
	MaxResults int `yaml:"max_results"`
	// MinSummarizeChars is the raw text length below which summarization is skipped.
	MinSummarizeChars int `yaml:"min_summarize_chars"`
	// MaxInputChars truncates raw text sent to the model.
	MaxInputChars int `yaml:"max_input_chars"`
	// FallbackChars is the raw text prefix used when summarization fails.
	FallbackChars int `yaml:"fallback_chars"`
	// Model is the chat model used for summaries.
	Model string `yaml:"model"`
}
