package audit

import (
	"context"
	"log/slog"
)

// Event types.
const (
	TypeToolCall              = "tool_call"
	TypeToolRejected          = "tool_rejected"
	TypeAuthorizationRequired = "authorization_required"
	TypeToolExecuted          = "tool_executed"
	TypeResearch              = "research"
)

// Event represents an audit entry for a tool invocation or research run.
type Event struct {
	// Type describes the event kind.
	Type string
	// Tool is the tool id.
	Tool string
	// CorrelationID links related events.
	CorrelationID string
	// Outcome is the invocation outcome.
	Outcome string
	// Reason provides additional context.
	Reason string
	// Arguments are redacted tool arguments, set on call events only.
	Arguments map[string]any
}

// Logger records audit events.
type Logger interface {
	// Record stores an audit event.
	Record(ctx context.Context, event Event)
}

// StdLogger writes audit events to slog.
type StdLogger struct {
	logger *slog.Logger
}

// New returns a StdLogger.
func New(logger *slog.Logger) *StdLogger {
	return &StdLogger{logger: logger}
}

// Record logs an audit event.
func (l *StdLogger) Record(ctx context.Context, event Event) {
	if l == nil || l.logger == nil {
		return
	}
	attrs := []any{
		"type", event.Type,
		"tool", event.Tool,
		"correlation_id", event.CorrelationID,
		"outcome", event.Outcome,
		"reason", event.Reason,
	}
	if event.Arguments != nil {
		attrs = append(attrs, "args", event.Arguments)
	}
	l.logger.InfoContext(ctx, "audit", attrs...)
}
