package call

import (
	"time"

	"github.com/jonwraymond/toolcall/tool"
)

// Request is one tool call requested by model output or by the client.
// Immutable once created.
type Request struct {
	// ID uniquely identifies the call within a process run.
	ID string

	// Name is the tool name to invoke.
	Name string

	// Args are the invocation arguments.
	Args map[string]any

	// ClientInitiated marks calls originated by the client rather than the
	// model.
	ClientInitiated bool

	// PromptID ties the call back to the prompt that produced it.
	PromptID string
}

// Phase is one step of a call's lifecycle.
type Phase int

const (
	// PhaseValidating is the initial phase while the tool is looked up and
	// the approval decision is made.
	PhaseValidating Phase = iota

	// PhaseAwaitingApproval parks the call until a confirmation outcome
	// arrives.
	PhaseAwaitingApproval

	// PhaseScheduled marks the call ready to execute.
	PhaseScheduled

	// PhaseExecuting marks the call's handler as running.
	PhaseExecuting

	// PhaseSucceeded is terminal: the handler returned a response.
	PhaseSucceeded

	// PhaseFailed is terminal: lookup, approval, or execution failed.
	PhaseFailed

	// PhaseCancelled is terminal: the call was cancelled before or instead
	// of completing.
	PhaseCancelled
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseAwaitingApproval:
		return "awaiting-approval"
	case PhaseScheduled:
		return "scheduled"
	case PhaseExecuting:
		return "executing"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase permits no further transitions.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed || p == PhaseCancelled
}

// Call is the state of one in-flight tool call: the originating request
// plus phase-specific payload. Values handed to observers are snapshots;
// the scheduler owns the live state.
type Call struct {
	// Request is the originating request.
	Request Request

	// Phase is the call's current lifecycle phase.
	Phase Phase

	// Confirmation holds the pending approval request while the call is in
	// PhaseAwaitingApproval.
	Confirmation *tool.Confirmation

	// StartedAt records when execution began.
	StartedAt time.Time

	// Duration is the execution time once the call is terminal.
	Duration time.Duration

	// Response is the handler's result in PhaseSucceeded.
	Response any

	// Err is the captured failure in PhaseFailed.
	Err error

	// CancelReason describes why the call was cancelled in PhaseCancelled.
	CancelReason string
}

// Terminal reports whether the call has reached a terminal phase.
func (c Call) Terminal() bool {
	return c.Phase.Terminal()
}

// Outcome is the user's decision on a pending confirmation.
type Outcome int

const (
	// OutcomeProceed approves this call.
	OutcomeProceed Outcome = iota

	// OutcomeProceedAlways approves this call; recording a session-wide
	// policy change is the caller's concern.
	OutcomeProceedAlways

	// OutcomeCancel declines the call.
	OutcomeCancel
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeProceed:
		return "proceed"
	case OutcomeProceedAlways:
		return "proceed-always"
	case OutcomeCancel:
		return "cancel"
	default:
		return "unknown"
	}
}
