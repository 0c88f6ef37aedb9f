package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// ErrCatalogueUnavailable marks failures that prevent the tool set from being built.
var ErrCatalogueUnavailable = errors.New("catalogue unavailable")

// Definition is a raw tool definition as returned by the remote catalogue.
type Definition struct {
	// Name is the tool name inside its toolkit, e.g. "ListEmails".
	Name string
	// QualifiedName is the remote execution name, e.g. "Gmail.ListEmails".
	QualifiedName string
	// Toolkit is the catalogue the tool belongs to.
	Toolkit string
	// Description explains the tool for the agent.
	Description string
	// Parameters describe the tool input.
	Parameters []Parameter
	// Authorization is non-nil when the tool needs a user grant.
	Authorization *AuthorizationRequirement
}

// Parameter describes one input field of a remote tool.
type Parameter struct {
	Name           string
	Description    string
	Required       bool
	ValueType      string
	InnerValueType string
	Enum           []string
}

// AuthorizationRequirement names the provider a tool needs a grant from.
type AuthorizationRequirement struct {
	ProviderID   string
	ProviderType string
	Scopes       []string
}

// Descriptor is the typed, immutable snapshot of one remote tool.
type Descriptor struct {
	// ID is the local tool id exposed to agents, e.g. "Gmail_ListEmails".
	ID string
	// QualifiedName is the remote name used for authorization and execution.
	QualifiedName string
	// Toolkit is the source catalogue.
	Toolkit string
	// Description explains the tool for the agent.
	Description string
	// InputSchema is the declared input shape.
	InputSchema *jsonschema.Schema
	// RequiresAuthorization reports whether execution needs a user grant.
	RequiresAuthorization bool

	resolved *jsonschema.Resolved
}

// ValidateArguments checks args against the declared input shape.
func (d Descriptor) ValidateArguments(args map[string]any) error {
	if d.resolved == nil {
		return fmt.Errorf("tool %s: input schema not resolved", d.ID)
	}
	if args == nil {
		args = map[string]any{}
	}
	return d.resolved.Validate(args)
}

// FromDefinition converts a raw definition into a Descriptor with a resolved input schema.
func FromDefinition(def Definition) (Descriptor, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return Descriptor{}, fmt.Errorf("tool definition without name")
	}
	qualified := strings.TrimSpace(def.QualifiedName)
	if qualified == "" {
		qualified = name
		if def.Toolkit != "" {
			qualified = def.Toolkit + "." + name
		}
	}

	schema := BuildSchema(def.Parameters)
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return Descriptor{}, fmt.Errorf("tool %s: resolve input schema: %w", qualified, err)
	}

	return Descriptor{
		ID:                    localID(qualified),
		QualifiedName:         qualified,
		Toolkit:               def.Toolkit,
		Description:           def.Description,
		InputSchema:           schema,
		RequiresAuthorization: def.Authorization != nil,
		resolved:              resolved,
	}, nil
}

// BuildSchema turns a parameter list into a JSON Schema object.
func BuildSchema(params []Parameter) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(params)),
	}
	for _, param := range params {
		if param.Name == "" {
			continue
		}
		prop := valueSchema(param.ValueType, param.InnerValueType)
		prop.Description = param.Description
		for _, value := range param.Enum {
			prop.Enum = append(prop.Enum, value)
		}
		schema.Properties[param.Name] = prop
		if param.Required {
			schema.Required = append(schema.Required, param.Name)
		}
	}
	return schema
}

func valueSchema(valueType, innerType string) *jsonschema.Schema {
	switch strings.ToLower(strings.TrimSpace(valueType)) {
	case "string":
		return &jsonschema.Schema{Type: "string"}
	case "integer":
		return &jsonschema.Schema{Type: "integer"}
	case "number":
		return &jsonschema.Schema{Type: "number"}
	case "boolean":
		return &jsonschema.Schema{Type: "boolean"}
	case "json", "object":
		return &jsonschema.Schema{Type: "object"}
	case "array":
		array := &jsonschema.Schema{Type: "array"}
		if innerType != "" {
			array.Items = valueSchema(innerType, "")
		}
		return array
	default:
		// unknown types accept any value
		return &jsonschema.Schema{}
	}
}

func localID(qualified string) string {
	return strings.ReplaceAll(qualified, ".", "_")
}
