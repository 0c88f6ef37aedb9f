// Package gate decides per call whether a remote action runs now or needs an authorization handshake first.
package gate

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/codex-k8s/toolgate-mcp-server/internal/catalog"
	"github.com/codex-k8s/toolgate-mcp-server/internal/metrics"
	"github.com/codex-k8s/toolgate-mcp-server/internal/protocol"
	"github.com/codex-k8s/toolgate-mcp-server/internal/runtime/executor"
)

// ErrEmptyIdentity is returned when a gate is built without a caller identity.
var ErrEmptyIdentity = errors.New("identity is empty")

// Identity is the opaque end-user identifier the authorization provider tracks grants for.
type Identity string

// State is the authorization state of one (tool, identity) pair at query time.
type State struct {
	// Authorized reports a completed grant.
	Authorized bool
	// URL is where the user completes a pending grant.
	URL string
}

// Authorized returns the granted state.
func Authorized() State {
	return State{Authorized: true}
}

// Pending returns the state of a grant the user still has to complete at url.
func Pending(url string) State {
	return State{URL: url}
}

// Provider reports the authorization state of a tool for an identity.
type Provider interface {
	// Status queries the provider. Implementations must not cache.
	Status(ctx context.Context, tool string, identity Identity) (State, error)
}

// Gate runs tools that need no grant, and tools whose grant is complete.
type Gate struct {
	identity Identity
	provider Provider
	executor executor.Executor
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// Option customizes a Gate.
type Option func(*Gate)

// WithLogger sets the gate logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(g *Gate) { g.metrics = recorder }
}

// New creates a gate acting on behalf of identity.
func New(identity Identity, provider Provider, exec executor.Executor, opts ...Option) (*Gate, error) {
	if strings.TrimSpace(string(identity)) == "" {
		return nil, ErrEmptyIdentity
	}
	if provider == nil {
		return nil, errors.New("authorization provider is nil")
	}
	if exec == nil {
		return nil, errors.New("executor is nil")
	}
	g := &Gate{
		identity: identity,
		provider: provider,
		executor: exec,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.metrics = metrics.OrNoop(g.metrics)
	return g, nil
}

// Identity returns the identity the gate acts for.
func (g *Gate) Identity() Identity {
	return g.identity
}

// CheckAndMaybeExecute executes the tool when no grant is needed or the grant is complete,
// and returns the authorization URL otherwise. The provider is queried on every call.
func (g *Gate) CheckAndMaybeExecute(ctx context.Context, descriptor catalog.Descriptor, args map[string]any, correlationID string) protocol.ToolResult {
	if descriptor.RequiresAuthorization {
		state, err := g.provider.Status(ctx, descriptor.QualifiedName, g.identity)
		if err != nil {
			g.metrics.ObserveAuthorizationCheck("error")
			if g.logger != nil {
				g.logger.Warn("authorization check failed", "tool", descriptor.ID, "correlation_id", correlationID, "error", err)
			}
			return protocol.Rejected("authorization check failed: " + err.Error())
		}
		if !state.Authorized && strings.TrimSpace(state.URL) == "" {
			g.metrics.ObserveAuthorizationCheck("error")
			if g.logger != nil {
				g.logger.Warn("pending authorization without url", "tool", descriptor.ID, "correlation_id", correlationID)
			}
			return protocol.Rejected("authorization check failed: pending authorization without url")
		}
		if !state.Authorized {
			g.metrics.ObserveAuthorizationCheck("pending")
			if g.logger != nil {
				g.logger.Info("authorization required", "tool", descriptor.ID, "correlation_id", correlationID)
			}
			return protocol.AuthorizationRequired(state.URL)
		}
		g.metrics.ObserveAuthorizationCheck("completed")
	}

	output, err := g.executor.Execute(ctx, executor.Request{
		Tool:          descriptor.QualifiedName,
		Arguments:     args,
		Identity:      string(g.identity),
		CorrelationID: correlationID,
	})
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("tool execution failed", "tool", descriptor.ID, "correlation_id", correlationID, "error", err)
		}
		return protocol.Rejected(err.Error())
	}
	return protocol.Executed(output)
}
