package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codex-k8s/toolgate-mcp-server/configs"
	"github.com/codex-k8s/toolgate-mcp-server/internal/app"
	"github.com/codex-k8s/toolgate-mcp-server/internal/approver/limits"
	"github.com/codex-k8s/toolgate-mcp-server/internal/audit"
	"github.com/codex-k8s/toolgate-mcp-server/internal/catalog"
	"github.com/codex-k8s/toolgate-mcp-server/internal/config"
	"github.com/codex-k8s/toolgate-mcp-server/internal/constants"
	"github.com/codex-k8s/toolgate-mcp-server/internal/dispatch"
	"github.com/codex-k8s/toolgate-mcp-server/internal/dsl"
	"github.com/codex-k8s/toolgate-mcp-server/internal/gate"
	"github.com/codex-k8s/toolgate-mcp-server/internal/log"
	"github.com/codex-k8s/toolgate-mcp-server/internal/metrics"
	"github.com/codex-k8s/toolgate-mcp-server/internal/research"
	"github.com/codex-k8s/toolgate-mcp-server/internal/runtime"
	"github.com/codex-k8s/toolgate-mcp-server/internal/runtime/approver"
	"github.com/codex-k8s/toolgate-mcp-server/internal/search"
	"github.com/codex-k8s/toolgate-mcp-server/internal/search/exa"
	"github.com/codex-k8s/toolgate-mcp-server/internal/summarize"
	"github.com/codex-k8s/toolgate-mcp-server/internal/toolhub"
)

func main() {
	embeddedConfig := flag.String("embedded-config", "", "Use embedded config from configs/ (filename)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.LogLevel, os.Stderr)

	raw, err := readConfig(cfg.ConfigPath, *embeddedConfig, logger)
	if err != nil {
		logger.Error("read config failed", "error", err)
		os.Exit(1)
	}
	dslCfg, err := dsl.Load(raw)
	if err != nil {
		logger.Error("parse config failed", "error", err)
		os.Exit(1)
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	go func() {
		sig := <-sigCh
		logger.Warn("shutdown requested", "signal", sig.String())
		cancel()
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheus(registry)
	auditLogger := audit.New(logger)

	builder, err := wire(baseCtx, cfg, dslCfg, logger, auditLogger, recorder)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	server, err := builder.Build(dslCfg)
	if err != nil {
		logger.Error("build server failed", "error", err)
		os.Exit(1)
	}

	switch dslCfg.Server.Transport {
	case constants.TransportStdio:
		if err := runStdio(baseCtx, server); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	default:
		info := map[string]any{"tools": builder.Tools.Len(), "research": !dslCfg.Research.Disabled}
		if err := runHTTP(baseCtx, cfg, dslCfg, server, registry, info, logger); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	}
}

// wire constructs the process-scoped clients once and hands them to the MCP builder.
func wire(ctx context.Context, cfg config.Config, dslCfg *dsl.Config, logger *slog.Logger, auditLogger audit.Logger, recorder metrics.Recorder) (runtime.Builder, error) {
	builder := runtime.Builder{Logger: logger, Audit: auditLogger}

	if len(dslCfg.Catalogues) > 0 {
		hub := toolhub.Client{
			BaseURL: cfg.ToolHub.BaseURL,
			APIKey:  cfg.ToolHub.APIKey,
			Timeout: cfg.ToolHub.Timeout,
		}

		sources := make([]catalog.Source, 0, len(dslCfg.Catalogues))
		for _, item := range dslCfg.Catalogues {
			sources = append(sources, catalog.Source{Name: item.Name, Limit: item.Limit})
		}
		tools, err := catalog.Load(ctx, catalog.NewAdapter(hub, logger), sources)
		if err != nil {
			return runtime.Builder{}, err
		}

		g, err := gate.New(gate.Identity(cfg.ToolHub.UserID), hub, hub, gate.WithLogger(logger), gate.WithMetrics(recorder))
		if err != nil {
			return runtime.Builder{}, fmt.Errorf("authorization gate: %w", err)
		}

		builder.Tools = tools
		builder.Dispatcher = dispatch.Dispatcher{
			Tools:     tools,
			Gate:      g,
			Approvers: approver.Chain{Approvers: []approver.Approver{limitsApprover(dslCfg.Limits)}},
			Audit:     auditLogger,
			Logger:    logger,
			Metrics:   recorder,
		}
	}

	if !dslCfg.Research.Disabled {
		chatModel, err := summarize.NewModel(ctx, cfg.OpenAI, dslCfg.Research.Model)
		if err != nil {
			return runtime.Builder{}, fmt.Errorf("summarization model: %w", err)
		}
		if chatModel == nil {
			logger.Warn("no summarization model configured, research returns raw text")
		}
		if cfg.Exa.APIKey == "" {
			logger.Warn("search api key is not set, research calls will report it")
		}

		builder.Research = research.Aggregator{
			Searcher: search.Client{
				Provider: exa.Client{
					BaseURL: cfg.Exa.BaseURL,
					APIKey:  cfg.Exa.APIKey,
					Timeout: cfg.Exa.Timeout,
				},
				HasCredential: cfg.Exa.APIKey != "",
				MaxResults:    dslCfg.Research.MaxResults,
				Logger:        logger,
			},
			Summarizer: summarize.Worker{
				Model:         chatModel,
				MinChars:      dslCfg.Research.MinSummarizeChars,
				MaxInputChars: dslCfg.Research.MaxInputChars,
				FallbackChars: dslCfg.Research.FallbackChars,
				Logger:        logger,
				Metrics:       recorder,
			},
			Logger:  logger,
			Metrics: recorder,
		}
	}

	return builder, nil
}

func limitsApprover(cfg dsl.LimitsConfig) *limits.Store {
	overrides := make(map[string]limits.Policy, len(cfg.Tools))
	for tool, item := range cfg.Tools {
		overrides[tool] = limits.Policy{MaxTotal: item.MaxTotal, RatePerMinute: item.RatePerMinute}
	}
	return limits.NewApprover("limits", limits.Policy{MaxTotal: cfg.MaxTotal, RatePerMinute: cfg.RatePerMinute}, overrides)
}

func readConfig(path, embedded string, logger *slog.Logger) ([]byte, error) {
	if embedded != "" {
		return configs.Load(embedded)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("config file not found, using embedded default", "path", path, "embedded", configs.DefaultName)
		return configs.Load(configs.DefaultName)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func runStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func runHTTP(ctx context.Context, envCfg config.Config, dslCfg *dsl.Config, server *mcp.Server, registry *prometheus.Registry, info map[string]any, logger *slog.Logger) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless: dslCfg.Server.HTTP.Stateless,
	})

	extra := map[string]http.Handler{}
	if dslCfg.Server.HTTP.MetricsPath != "" {
		extra[dslCfg.Server.HTTP.MetricsPath] = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	}

	application, err := app.New(ctx, dslCfg.Server, handler, extra, logger, envCfg.ShutdownTimeout)
	if err != nil {
		return err
	}
	application.SetInfo(info)

	return application.Run(ctx)
}
