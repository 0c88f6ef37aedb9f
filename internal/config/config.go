package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the server.
type Config struct {
	// ConfigPath is the path to the YAML configuration file.
	ConfigPath string `env:"TOOLGATE_CONFIG" envDefault:"config.yaml"`
	// LogLevel sets the logger level.
	LogLevel string `env:"TOOLGATE_LOG_LEVEL" envDefault:"info"`
	// ShutdownTimeout controls graceful shutdown duration.
	ShutdownTimeout time.Duration `env:"TOOLGATE_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// ToolHub configures the remote tool catalogue service.
	ToolHub ToolHubConfig `envPrefix:"TOOLHUB_"`
	// Exa configures the web search provider.
	Exa ExaConfig `envPrefix:"EXA_"`
	// OpenAI configures the summarization model provider.
	OpenAI OpenAIConfig `envPrefix:"OPENAI_"`
}

// ToolHubConfig holds credentials for the catalogue, authorization and execution API.
type ToolHubConfig struct {
	// APIKey authenticates against the tool hub.
	APIKey string `env:"API_KEY"`
	// BaseURL is the tool hub API root.
	BaseURL string `env:"BASE_URL" envDefault:"https://api.arcade.dev"`
	// UserID identifies the end user to the authorization provider.
	UserID string `env:"USER_ID"`
	// Timeout bounds each tool hub HTTP request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// ExaConfig holds search provider settings. An empty APIKey is not fatal.
type ExaConfig struct {
	// APIKey authenticates against the search provider.
	APIKey string `env:"API_KEY"`
	// BaseURL is the search API root.
	BaseURL string `env:"BASE_URL" envDefault:"https://api.exa.ai"`
	// Timeout bounds each search request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

// OpenAIConfig holds chat model credentials for summarization.
type OpenAIConfig struct {
	// APIKey authenticates against the model provider.
	APIKey string `env:"API_KEY"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `env:"BASE_URL"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
