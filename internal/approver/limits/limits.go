package limits

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/codex-k8s/toolgate-mcp-server/internal/runtime/approver"
)

// Rejection reasons returned to agents.
const (
	ReasonMaxTotal  = "Maximum number of calls exceeded"
	ReasonRateLimit = "Rate limit exceeded"
)

// Policy bounds calls of a single tool. Zero values disable the bound.
type Policy struct {
	// MaxTotal limits total tool calls for the process lifetime.
	MaxTotal int
	// RatePerMinute limits calls per minute.
	RatePerMinute int
}

func (p Policy) enabled() bool {
	return p.MaxTotal > 0 || p.RatePerMinute > 0
}

type limiterState struct {
	count   int
	limiter *rate.Limiter
}

// Store keeps per-tool counters. It is safe for concurrent use.
type Store struct {
	name      string
	defaults  Policy
	overrides map[string]Policy

	mu     sync.Mutex
	byTool map[string]*limiterState
}

// NewApprover creates a limits approver with default and per-tool policies.
func NewApprover(name string, defaults Policy, overrides map[string]Policy) *Store {
	copied := make(map[string]Policy, len(overrides))
	for tool, policy := range overrides {
		copied[tool] = policy
	}
	return &Store{
		name:      name,
		defaults:  defaults,
		overrides: copied,
		byTool:    make(map[string]*limiterState),
	}
}

// Name returns approver name for audit and logging.
func (s *Store) Name() string {
	if s.name != "" {
		return s.name
	}
	return "limits"
}

// Approve counts the call and rejects it once a bound is exceeded.
func (s *Store) Approve(_ context.Context, req approver.Request) (approver.Decision, error) {
	policy := s.policyFor(req.ToolID)
	if !policy.enabled() {
		return approver.Decision{Allowed: true, Reason: "approved", Source: s.Name()}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.byTool[req.ToolID]
	if state == nil {
		state = &limiterState{}
		if policy.RatePerMinute > 0 {
			state.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(policy.RatePerMinute)), policy.RatePerMinute)
		}
		s.byTool[req.ToolID] = state
	}

	if policy.MaxTotal > 0 && state.count >= policy.MaxTotal {
		return approver.Decision{Allowed: false, Reason: ReasonMaxTotal, Source: s.Name()}, nil
	}
	if state.limiter != nil && !state.limiter.Allow() {
		return approver.Decision{Allowed: false, Reason: ReasonRateLimit, Source: s.Name()}, nil
	}

	state.count++
	return approver.Decision{Allowed: true, Reason: "approved", Source: s.Name()}, nil
}

func (s *Store) policyFor(toolID string) Policy {
	if policy, ok := s.overrides[toolID]; ok {
		return policy
	}
	return s.defaults
}
