package toolhub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/codex-k8s/toolgate-mcp-server/internal/catalog"
	"github.com/codex-k8s/toolgate-mcp-server/internal/gate"
	"github.com/codex-k8s/toolgate-mcp-server/internal/runtime/executor"
)

type listResponse struct {
	Items []toolDefinition `json:"items"`
}

type toolDefinition struct {
	Name               string           `json:"name"`
	QualifiedName      string           `json:"qualified_name"`
	FullyQualifiedName string           `json:"fully_qualified_name"`
	Description        string           `json:"description"`
	Toolkit            toolkitInfo      `json:"toolkit"`
	Input              toolInput        `json:"input"`
	Requirements       *toolRequirement `json:"requirements"`
}

type toolkitInfo struct {
	Name string `json:"name"`
}

type toolInput struct {
	Parameters []toolParameter `json:"parameters"`
}

type toolParameter struct {
	Name        string      `json:"name"`
	Required    bool        `json:"required"`
	Description string      `json:"description"`
	ValueSchema valueSchema `json:"value_schema"`
}

type valueSchema struct {
	ValType      string   `json:"val_type"`
	InnerValType string   `json:"inner_val_type"`
	Enum         []string `json:"enum"`
}

type toolRequirement struct {
	Authorization *authorizationRequirement `json:"authorization"`
}

type authorizationRequirement struct {
	ProviderID   string     `json:"provider_id"`
	ProviderType string     `json:"provider_type"`
	OAuth2       *oauth2Req `json:"oauth2"`
}

type oauth2Req struct {
	Scopes []string `json:"scopes"`
}

type authorizeRequest struct {
	ToolName string `json:"tool_name"`
	UserID   string `json:"user_id"`
}

type authorizeResponse struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

type executeRequest struct {
	ToolName string         `json:"tool_name"`
	Input    map[string]any `json:"input"`
	UserID   string         `json:"user_id"`
}

type executeResponse struct {
	Success bool          `json:"success"`
	Output  executeOutput `json:"output"`
}

type executeOutput struct {
	Value any           `json:"value"`
	Error *executeError `json:"error"`
}

type executeError struct {
	Message string `json:"message"`
}

// ListDefinitions fetches up to limit tool definitions of a toolkit.
func (c Client) ListDefinitions(ctx context.Context, catalogue string, limit int) ([]catalog.Definition, error) {
	query := url.Values{}
	query.Set("toolkit", catalogue)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var parsed listResponse
	if err := c.do(ctx, http.MethodGet, "/v1/tools", query, nil, &parsed); err != nil {
		return nil, fmt.Errorf("list tools of %s: %w", catalogue, err)
	}

	defs := make([]catalog.Definition, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		defs = append(defs, item.definition())
	}
	return defs, nil
}

func (t toolDefinition) definition() catalog.Definition {
	qualified := t.QualifiedName
	if qualified == "" && t.FullyQualifiedName != "" {
		// "Gmail.ListEmails@1.2.0" carries a version suffix
		qualified, _, _ = strings.Cut(t.FullyQualifiedName, "@")
	}

	params := make([]catalog.Parameter, 0, len(t.Input.Parameters))
	for _, p := range t.Input.Parameters {
		params = append(params, catalog.Parameter{
			Name:           p.Name,
			Description:    p.Description,
			Required:       p.Required,
			ValueType:      p.ValueSchema.ValType,
			InnerValueType: p.ValueSchema.InnerValType,
			Enum:           p.ValueSchema.Enum,
		})
	}

	def := catalog.Definition{
		Name:          t.Name,
		QualifiedName: qualified,
		Toolkit:       t.Toolkit.Name,
		Description:   t.Description,
		Parameters:    params,
	}
	if t.Requirements != nil && t.Requirements.Authorization != nil {
		auth := t.Requirements.Authorization
		def.Authorization = &catalog.AuthorizationRequirement{
			ProviderID:   auth.ProviderID,
			ProviderType: auth.ProviderType,
		}
		if auth.OAuth2 != nil {
			def.Authorization.Scopes = auth.OAuth2.Scopes
		}
	}
	return def
}

// Status asks the hub whether identity has granted access to tool.
func (c Client) Status(ctx context.Context, tool string, identity gate.Identity) (gate.State, error) {
	var parsed authorizeResponse
	err := c.do(ctx, http.MethodPost, "/v1/tools/authorize", nil, authorizeRequest{
		ToolName: tool,
		UserID:   string(identity),
	}, &parsed)
	if err != nil {
		return gate.State{}, fmt.Errorf("authorize %s: %w", tool, err)
	}

	switch strings.ToLower(strings.TrimSpace(parsed.Status)) {
	case StatusCompleted:
		return gate.Authorized(), nil
	case StatusPending, StatusNotStarted:
		if strings.TrimSpace(parsed.URL) == "" {
			return gate.State{}, fmt.Errorf("authorize %s: pending without url", tool)
		}
		return gate.Pending(parsed.URL), nil
	case StatusFailed:
		return gate.State{}, fmt.Errorf("authorize %s: authorization failed", tool)
	default:
		return gate.State{}, fmt.Errorf("authorize %s: unknown status %q", tool, parsed.Status)
	}
}

// Execute runs a tool on behalf of req.Identity and returns its output value.
func (c Client) Execute(ctx context.Context, req executor.Request) (any, error) {
	input := req.Arguments
	if input == nil {
		input = map[string]any{}
	}

	var parsed executeResponse
	err := c.do(ctx, http.MethodPost, "/v1/tools/execute", nil, executeRequest{
		ToolName: req.Tool,
		Input:    input,
		UserID:   req.Identity,
	}, &parsed)
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", req.Tool, err)
	}

	if parsed.Output.Error != nil && strings.TrimSpace(parsed.Output.Error.Message) != "" {
		return nil, errors.New(parsed.Output.Error.Message)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("execute %s: tool reported failure", req.Tool)
	}
	return parsed.Output.Value, nil
}

var (
	_ catalog.Lister    = Client{}
	_ gate.Provider     = Client{}
	_ executor.Executor = Client{}
)
