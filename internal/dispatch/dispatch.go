// Package dispatch routes agent tool calls to the authorization gate after validating them.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/codex-k8s/toolgate-mcp-server/internal/audit"
	"github.com/codex-k8s/toolgate-mcp-server/internal/catalog"
	"github.com/codex-k8s/toolgate-mcp-server/internal/metrics"
	"github.com/codex-k8s/toolgate-mcp-server/internal/protocol"
	"github.com/codex-k8s/toolgate-mcp-server/internal/runtime/approver"
	"github.com/codex-k8s/toolgate-mcp-server/internal/security"
)

// Gate executes a validated call or reports that authorization is pending.
type Gate interface {
	CheckAndMaybeExecute(ctx context.Context, descriptor catalog.Descriptor, args map[string]any, correlationID string) protocol.ToolResult
}

// Dispatcher resolves tool ids, validates arguments and delegates to the gate.
type Dispatcher struct {
	// Tools is the descriptor set built at startup.
	Tools *catalog.Set
	// Gate runs or defers the call.
	Gate Gate
	// Approvers run after validation and before the gate, e.g. call limits.
	Approvers approver.Chain
	// Audit records call outcomes.
	Audit audit.Logger
	// Logger is used for structured logging.
	Logger *slog.Logger
	// Metrics counts call outcomes.
	Metrics metrics.Recorder
}

// Invoke handles one tool call. Malformed input never reaches the network.
func (d Dispatcher) Invoke(ctx context.Context, toolID string, raw json.RawMessage) protocol.ToolResult {
	correlationID := uuid.NewString()

	descriptor, ok := d.Tools.Lookup(toolID)
	if !ok {
		return d.finish(ctx, toolID, correlationID, protocol.Rejected(protocol.ReasonUnknownTool))
	}

	args, ok := decodeArguments(raw)
	if !ok {
		return d.finish(ctx, toolID, correlationID, protocol.Rejected(protocol.ReasonInvalidArguments))
	}
	if err := descriptor.ValidateArguments(args); err != nil {
		if d.Logger != nil {
			d.Logger.Debug("argument validation failed", "tool", toolID, "correlation_id", correlationID, "error", err)
		}
		return d.finish(ctx, toolID, correlationID, protocol.Rejected(protocol.ReasonInvalidArguments))
	}

	redacted := security.RedactArguments(args)
	if d.Logger != nil {
		d.Logger.Info("tool call", "tool", toolID, "correlation_id", correlationID, "args", redacted)
	}
	if d.Audit != nil {
		d.Audit.Record(ctx, audit.Event{Type: audit.TypeToolCall, Tool: toolID, CorrelationID: correlationID, Arguments: redacted})
	}

	decision, err := d.Approvers.Approve(ctx, approver.Request{ToolID: toolID, Arguments: args, CorrelationID: correlationID})
	if err != nil || !decision.Allowed {
		return d.finish(ctx, toolID, correlationID, protocol.Rejected(decision.Reason))
	}

	if d.Gate == nil {
		return d.finish(ctx, toolID, correlationID, protocol.Rejected("authorization gate is not configured"))
	}
	return d.finish(ctx, toolID, correlationID, d.Gate.CheckAndMaybeExecute(ctx, descriptor, args, correlationID))
}

func (d Dispatcher) finish(ctx context.Context, toolID, correlationID string, result protocol.ToolResult) protocol.ToolResult {
	result.CorrelationID = correlationID
	metrics.OrNoop(d.Metrics).ObserveToolCall(toolID, result.Outcome)

	eventType := audit.TypeToolExecuted
	switch result.Outcome {
	case protocol.OutcomeRejected:
		eventType = audit.TypeToolRejected
	case protocol.OutcomeAuthorizationRequired:
		eventType = audit.TypeAuthorizationRequired
	}
	if d.Audit != nil {
		d.Audit.Record(ctx, audit.Event{
			Type:          eventType,
			Tool:          toolID,
			CorrelationID: correlationID,
			Outcome:       result.Outcome,
			Reason:        result.Rejected,
		})
	}
	return result
}

// decodeArguments accepts a JSON object. Empty input and null mean no arguments.
func decodeArguments(raw json.RawMessage) (map[string]any, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, true
	}
	var args map[string]any
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return nil, false
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, true
}
