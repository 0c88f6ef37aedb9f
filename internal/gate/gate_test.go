package gate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codex-k8s/toolgate-mcp-server/internal/catalog"
	"github.com/codex-k8s/toolgate-mcp-server/internal/protocol"
	"github.com/codex-k8s/toolgate-mcp-server/internal/runtime/executor"
)

type scriptedProvider struct {
	mu     sync.Mutex
	states []State
	err    error
	calls  int
}

func (p *scriptedProvider) Status(_ context.Context, _ string, _ Identity) (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return State{}, p.err
	}
	state := p.states[0]
	if len(p.states) > 1 {
		p.states = p.states[1:]
	}
	return state, nil
}

type recordingExecutor struct {
	requests []executor.Request
	output   any
	err      error
}

func (e *recordingExecutor) Execute(_ context.Context, req executor.Request) (any, error) {
	e.requests = append(e.requests, req)
	return e.output, e.err
}

func descriptor(t *testing.T, requiresAuth bool) catalog.Descriptor {
	t.Helper()
	def := catalog.Definition{Name: "ListEmails", Toolkit: "Gmail"}
	if requiresAuth {
		def.Authorization = &catalog.AuthorizationRequirement{ProviderID: "google"}
	}
	d, err := catalog.FromDefinition(def)
	require.NoError(t, err)
	return d
}

func TestNew_EmptyIdentity(t *testing.T) {
	_, err := New("  ", &scriptedProvider{}, &recordingExecutor{})
	assert.ErrorIs(t, err, ErrEmptyIdentity)
}

func TestNew_MissingCollaborators(t *testing.T) {
	_, err := New("user@example.com", nil, &recordingExecutor{})
	assert.Error(t, err)

	_, err = New("user@example.com", &scriptedProvider{}, nil)
	assert.Error(t, err)
}

func TestCheckAndMaybeExecute_NoAuthorizationNeeded(t *testing.T) {
	provider := &scriptedProvider{states: []State{Pending("https://auth.example/never")}}
	exec := &recordingExecutor{output: map[string]any{"hotels": 3}}
	g, err := New("user@example.com", provider, exec)
	require.NoError(t, err)

	result := g.CheckAndMaybeExecute(context.Background(), descriptor(t, false), map[string]any{"location": "Tokyo"}, "c-1")

	assert.Equal(t, protocol.OutcomeExecuted, result.Outcome)
	assert.Equal(t, map[string]any{"hotels": 3}, result.Output)
	assert.Equal(t, 0, provider.calls)
	require.Len(t, exec.requests, 1)
	assert.Equal(t, "Gmail.ListEmails", exec.requests[0].Tool)
	assert.Equal(t, "user@example.com", exec.requests[0].Identity)
	assert.Equal(t, "c-1", exec.requests[0].CorrelationID)
}

func TestCheckAndMaybeExecute_PendingDoesNotExecute(t *testing.T) {
	provider := &scriptedProvider{states: []State{Pending("https://auth.example/grant")}}
	exec := &recordingExecutor{}
	g, err := New("user@example.com", provider, exec)
	require.NoError(t, err)

	result := g.CheckAndMaybeExecute(context.Background(), descriptor(t, true), nil, "")

	assert.Equal(t, protocol.AuthorizationRequired("https://auth.example/grant"), result)
	assert.Empty(t, exec.requests)
}

func TestCheckAndMaybeExecute_GrantPickedUpOnNextCall(t *testing.T) {
	provider := &scriptedProvider{states: []State{Pending("https://auth.example/grant"), Authorized()}}
	exec := &recordingExecutor{output: "3 emails"}
	g, err := New("user@example.com", provider, exec)
	require.NoError(t, err)

	first := g.CheckAndMaybeExecute(context.Background(), descriptor(t, true), nil, "")
	second := g.CheckAndMaybeExecute(context.Background(), descriptor(t, true), nil, "")

	assert.Equal(t, protocol.OutcomeAuthorizationRequired, first.Outcome)
	assert.Equal(t, protocol.Executed("3 emails"), second)
	assert.Equal(t, 2, provider.calls)
	assert.Len(t, exec.requests, 1)
}

func TestCheckAndMaybeExecute_Failures(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		exec := &recordingExecutor{}
		g, err := New("u", &scriptedProvider{err: errors.New("hub unreachable")}, exec)
		require.NoError(t, err)

		result := g.CheckAndMaybeExecute(context.Background(), descriptor(t, true), nil, "")

		assert.Equal(t, protocol.OutcomeRejected, result.Outcome)
		assert.Contains(t, result.Rejected, "hub unreachable")
		assert.Empty(t, exec.requests)
	})

	t.Run("pending without url", func(t *testing.T) {
		for _, url := range []string{"", "  "} {
			exec := &recordingExecutor{}
			g, err := New("u", &scriptedProvider{states: []State{Pending(url)}}, exec)
			require.NoError(t, err)

			result := g.CheckAndMaybeExecute(context.Background(), descriptor(t, true), nil, "")

			assert.Equal(t, protocol.OutcomeRejected, result.Outcome)
			assert.Contains(t, result.Rejected, "pending authorization without url")
			assert.Empty(t, result.AuthorizationURL)
			assert.Empty(t, exec.requests)
		}
	})

	t.Run("execution error", func(t *testing.T) {
		exec := &recordingExecutor{err: errors.New("mailbox not found")}
		g, err := New("u", &scriptedProvider{states: []State{Authorized()}}, exec)
		require.NoError(t, err)

		result := g.CheckAndMaybeExecute(context.Background(), descriptor(t, true), nil, "")

		assert.Equal(t, protocol.Rejected("mailbox not found"), result)
	})
}
