package dsl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/codex-k8s/toolgate-mcp-server/internal/constants"
)

var toolNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

// Validate applies defaults and verifies required fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Server.Name == "" {
		return fmt.Errorf("server.name is required")
	}
	if cfg.Server.Version == "" {
		return fmt.Errorf("server.version is required")
	}
	cfg.Server.Transport = strings.ToLower(strings.TrimSpace(cfg.Server.Transport))
	switch cfg.Server.Transport {
	case "":
		cfg.Server.Transport = constants.TransportHTTP
	case constants.TransportHTTP, constants.TransportStdio:
	default:
		return fmt.Errorf("server.transport must be http or stdio")
	}
	if cfg.Server.HTTP.Listen == "" {
		cfg.Server.HTTP.Listen = ":8080"
	}
	if cfg.Server.HTTP.Path == "" {
		cfg.Server.HTTP.Path = "/mcp"
	}
	if !strings.HasPrefix(cfg.Server.HTTP.Path, "/") {
		return fmt.Errorf("server.http.path must start with /")
	}
	if cfg.Server.HTTP.MetricsPath != "" {
		if !strings.HasPrefix(cfg.Server.HTTP.MetricsPath, "/") {
			return fmt.Errorf("server.http.metrics_path must start with /")
		}
		if cfg.Server.HTTP.MetricsPath == cfg.Server.HTTP.Path {
			return fmt.Errorf("server.http.metrics_path must differ from server.http.path")
		}
	}

	names := map[string]struct{}{}
	for i := range cfg.Catalogues {
		catalogue := &cfg.Catalogues[i]
		catalogue.Name = strings.TrimSpace(catalogue.Name)
		if catalogue.Name == "" {
			return fmt.Errorf("catalogues[%d].name is required", i)
		}
		if _, exists := names[catalogue.Name]; exists {
			return fmt.Errorf("duplicate catalogue name: %s", catalogue.Name)
		}
		names[catalogue.Name] = struct{}{}
		if catalogue.Limit == 0 {
			catalogue.Limit = constants.DefaultCatalogueLimit
		}
		if catalogue.Limit < 0 {
			return fmt.Errorf("catalogues[%d].limit must be > 0", i)
		}
	}

	if cfg.Limits.MaxTotal < 0 || cfg.Limits.RatePerMinute < 0 {
		return fmt.Errorf("limits must be >= 0")
	}
	for tool, limit := range cfg.Limits.Tools {
		if strings.TrimSpace(tool) == "" {
			return fmt.Errorf("limits.tools keys must be tool ids")
		}
		if limit.MaxTotal < 0 || limit.RatePerMinute < 0 {
			return fmt.Errorf("limits.tools[%s] must be >= 0", tool)
		}
	}

	return validateResearch(&cfg.Research)
}

func validateResearch(cfg *ResearchConfig) error {
	if cfg.ToolName == "" {
		cfg.ToolName = constants.DefaultResearchTool
	}
	if !toolNamePattern.MatchString(cfg.ToolName) {
		return fmt.Errorf("research.tool_name must match %s", toolNamePattern.String())
	}
	if cfg.Description == "" {
		cfg.Description = "Search the web for information on a specific query and return summarized content"
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = constants.DefaultMaxResults
	}
	if cfg.MinSummarizeChars == 0 {
		cfg.MinSummarizeChars = constants.DefaultMinSummarizeChars
	}
	if cfg.MaxInputChars == 0 {
		cfg.MaxInputChars = constants.DefaultMaxInputChars
	}
	if cfg.FallbackChars == 0 {
		cfg.FallbackChars = constants.DefaultFallbackChars
	}
	if cfg.Model == "" {
		cfg.Model = constants.DefaultSummaryModel
	}
	if cfg.MaxResults < 0 || cfg.MinSummarizeChars < 0 || cfg.MaxInputChars < 0 || cfg.FallbackChars < 0 {
		return fmt.Errorf("research limits must be > 0")
	}
	return nil
}
