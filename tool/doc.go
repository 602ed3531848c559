// Package tool defines tool registration and approval gating for the
// tool-call execution engine.
//
// A [Def] describes one callable tool: its name, declared input schema,
// MCP behavior annotations, the execution handler, and an optional
// confirmation hook. A [Registry] holds definitions by name and is the
// lookup surface consulted by the scheduler and the parser.
//
// # Approval
//
// [NeedsConfirmation] implements the approval decision made once per call
// during validation:
//
//   - [ModeAutoApprove] skips confirmation entirely.
//   - Tools annotated read-only (mcp.ToolAnnotations.ReadOnlyHint) never ask.
//   - Otherwise the tool's own [Confirmer] decides, returning a
//     [Confirmation] describing what is about to happen.
//
// The approval surface itself (dialogs, chat prompts) is out of scope; the
// scheduler only parks the call until a decision arrives.
package tool
