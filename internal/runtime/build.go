package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/codex-k8s/toolgate-mcp-server/internal/audit"
	"github.com/codex-k8s/toolgate-mcp-server/internal/catalog"
	"github.com/codex-k8s/toolgate-mcp-server/internal/dsl"
	"github.com/codex-k8s/toolgate-mcp-server/internal/protocol"
	"github.com/codex-k8s/toolgate-mcp-server/internal/research"
)

// Invoker handles catalogue tool calls.
type Invoker interface {
	Invoke(ctx context.Context, toolID string, raw json.RawMessage) protocol.ToolResult
}

// Researcher handles the web research tool.
type Researcher interface {
	Research(ctx context.Context, query string) research.Result
}

// Builder constructs an MCP server exposing catalogue tools and the research tool.
type Builder struct {
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Audit records research runs.
	Audit audit.Logger
	// Tools is the descriptor set to expose.
	Tools *catalog.Set
	// Dispatcher handles catalogue tool calls.
	Dispatcher Invoker
	// Research handles the research tool; nil disables it.
	Research Researcher
}

// Build creates an MCP server from the DSL config.
func (b Builder) Build(cfg *dsl.Config) (*mcp.Server, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if b.Tools.Len() > 0 && b.Dispatcher == nil {
		return nil, errors.New("dispatcher is nil")
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)

	for _, descriptor := range b.Tools.All() {
		b.addCatalogueTool(server, descriptor)
	}

	if !cfg.Research.Disabled {
		if b.Research == nil {
			return nil, errors.New("research tool enabled but no researcher configured")
		}
		if _, clash := b.Tools.Lookup(cfg.Research.ToolName); clash {
			return nil, fmt.Errorf("research tool name %s clashes with a catalogue tool", cfg.Research.ToolName)
		}
		b.addResearchTool(server, cfg.Research)
	}

	if b.Logger != nil {
		b.Logger.Info("mcp server built", "catalogue_tools", b.Tools.Len(), "research", !cfg.Research.Disabled)
	}
	return server, nil
}

func (b Builder) addCatalogueTool(server *mcp.Server, descriptor catalog.Descriptor) {
	tool := &mcp.Tool{
		Name:        descriptor.ID,
		Description: descriptor.Description,
		InputSchema: descriptor.InputSchema,
		Annotations: &mcp.ToolAnnotations{
			OpenWorldHint: boolPtr(true),
		},
	}

	server.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw json.RawMessage
		if req != nil && req.Params != nil {
			raw = req.Params.Arguments
		}
		result := b.Dispatcher.Invoke(ctx, descriptor.ID, raw)
		return toolResult(result)
	})
}

func (b Builder) addResearchTool(server *mcp.Server, cfg dsl.ResearchConfig) {
	tool := &mcp.Tool{
		Name:        cfg.ToolName,
		Description: cfg.Description,
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(true),
		},
	}

	mcp.AddTool(server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, input protocol.SearchRequest) (*mcp.CallToolResult, research.Result, error) {
		correlationID := uuid.NewString()
		if b.Logger != nil {
			b.Logger.Info("research call", "tool", cfg.ToolName, "correlation_id", correlationID)
		}

		result := b.Research.Research(ctx, input.Query)

		if b.Audit != nil {
			b.Audit.Record(ctx, audit.Event{
				Type:          audit.TypeResearch,
				Tool:          cfg.ToolName,
				CorrelationID: correlationID,
				Outcome:       fmt.Sprintf("%d items", len(result.Items)),
				Reason:        result.Error,
			})
		}
		return nil, result, nil
	})
}

func toolResult(result protocol.ToolResult) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(data)}},
		StructuredContent: result,
	}, nil
}

func boolPtr(value bool) *bool {
	return &value
}
