package tool

import "context"

// ApprovalMode determines whether tool calls require explicit confirmation
// before execution.
type ApprovalMode int

const (
	// ModeDefault asks for confirmation whenever the tool reports that one
	// is needed.
	ModeDefault ApprovalMode = iota

	// ModeAutoApprove skips confirmation for every tool call.
	ModeAutoApprove
)

// String returns the mode name.
func (m ApprovalMode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeAutoApprove:
		return "auto-approve"
	default:
		return "unknown"
	}
}

// Policy supplies the current approval mode. It is consulted once per call
// during validation.
type Policy interface {
	Mode() ApprovalMode
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func() ApprovalMode

// Mode returns the current approval mode.
func (f PolicyFunc) Mode() ApprovalMode { return f() }

// Confirmation describes a pending approval request for a tool call.
type Confirmation struct {
	// Kind classifies the confirmation (e.g. "edit", "delete", "execute").
	Kind string

	// Title is a short human-readable summary.
	Title string

	// Message describes what the tool is about to do.
	Message string

	// Payload carries confirmation-specific detail for the approval surface,
	// such as a rendered diff or the affected document name.
	Payload map[string]any
}

// NeedsConfirmation decides whether a call to the given tool must wait for
// user approval. Auto-approve mode and read-only tools never ask; otherwise
// the tool's own Confirm hook has the final say.
func NeedsConfirmation(ctx context.Context, d Def, args map[string]any, mode ApprovalMode) (*Confirmation, error) {
	if mode == ModeAutoApprove {
		return nil, nil
	}
	if d.ReadOnly() {
		return nil, nil
	}
	if d.Confirm == nil {
		return nil, nil
	}
	return d.Confirm(ctx, args)
}
