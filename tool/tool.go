package tool

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler is the function signature for tool implementations.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Confirmer reports whether executing a tool with the given arguments
// requires explicit user confirmation. A nil Confirmation with a nil error
// means the call may proceed without asking.
//
// Contract:
// - Context: implementations must honor cancellation and return ctx.Err() when canceled.
// - Ownership: args are read-only; the returned Confirmation is caller-owned.
type Confirmer func(ctx context.Context, args map[string]any) (*Confirmation, error)

// Def defines a callable tool exposed to the model.
type Def struct {
	// Name is the unique tool name used for registry lookup.
	Name string

	// Title is an optional human-readable display name.
	Title string

	// Description documents what the tool does.
	Description string

	// InputSchema declares the tool's parameters. Only the Required list is
	// consulted by the shallow call validation in the parse package; full
	// schema validation is the concern of upstream layers.
	InputSchema *jsonschema.Schema

	// Annotations carry MCP behavior hints. A tool marked read-only via
	// Annotations.ReadOnlyHint never requires confirmation.
	Annotations *mcp.ToolAnnotations

	// Execute runs the tool. Required.
	Execute Handler

	// Confirm decides whether a particular invocation needs user approval.
	// Optional; a nil Confirm means the tool never asks.
	Confirm Confirmer
}

// ReadOnly reports whether the tool is annotated as read-only.
func (d Def) ReadOnly() bool {
	return d.Annotations != nil && d.Annotations.ReadOnlyHint
}

// RequiredParams returns the declared required parameter names, or nil if
// the tool declares no input schema.
func (d Def) RequiredParams() []string {
	if d.InputSchema == nil {
		return nil
	}
	return d.InputSchema.Required
}
