package executor

import "context"

// Request contains remote tool execution inputs.
type Request struct {
	// Tool is the remote qualified tool name, e.g. "Gmail.ListEmails".
	Tool string
	// Arguments are validated tool arguments.
	Arguments map[string]any
	// Identity is the end user the action runs on behalf of.
	Identity string
	// CorrelationID links related executions.
	CorrelationID string
}

// Executor runs a remote tool and returns its output value.
type Executor interface {
	// Execute runs the tool. A returned error carries a reason fit for the agent.
	Execute(ctx context.Context, req Request) (any, error)
}

// Func adapts a function to Executor.
type Func func(ctx context.Context, req Request) (any, error)

// Execute calls f.
func (f Func) Execute(ctx context.Context, req Request) (any, error) {
	return f(ctx, req)
}
