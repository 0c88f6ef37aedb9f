package protocol

// Tool invocation outcomes.
const (
	OutcomeExecuted              = "executed"
	OutcomeAuthorizationRequired = "authorization_required"
	OutcomeRejected              = "rejected"
)

// Fixed rejection reasons returned to agents.
const (
	ReasonInvalidArguments = "invalid arguments"
	ReasonUnknownTool      = "unknown tool"
)

// ToolResult is the fixed JSON response returned to MCP clients for catalogue tools.
// Exactly one of Output, AuthorizationURL and Rejected is meaningful, selected by Outcome.
type ToolResult struct {
	// Outcome names the populated variant.
	Outcome string `json:"outcome"`
	// Output is the execution result of the remote action.
	Output any `json:"output,omitempty"`
	// AuthorizationURL is where the end user completes the grant.
	AuthorizationURL string `json:"authorizationUrl,omitempty"`
	// Rejected is a human-readable rejection reason.
	Rejected string `json:"rejected,omitempty"`
	// CorrelationID links related log and audit entries.
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Executed builds a successful result.
func Executed(output any) ToolResult {
	return ToolResult{Outcome: OutcomeExecuted, Output: output}
}

// AuthorizationRequired builds a pending-authorization result.
func AuthorizationRequired(url string) ToolResult {
	return ToolResult{Outcome: OutcomeAuthorizationRequired, AuthorizationURL: url}
}

// Rejected builds a rejection result.
func Rejected(reason string) ToolResult {
	return ToolResult{Outcome: OutcomeRejected, Rejected: reason}
}

// SearchRequest is the input of the research tool.
type SearchRequest struct {
	// Query is the web search query.
	Query string `json:"query" jsonschema:"The search query to run"`
}
