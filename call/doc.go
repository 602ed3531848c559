// Package call schedules AI-requested tool calls and drives each through
// its lifecycle to a terminal state.
//
// A [Scheduler] owns the canonical in-flight list. Each [Request] enters in
// [PhaseValidating]; unknown tool names fail immediately, tools requiring
// approval park in [PhaseAwaitingApproval], and everything else proceeds to
// [PhaseScheduled]. A driver runs after every external event — scheduling,
// a confirmation outcome, an execution completion — and starts execution of
// every scheduled call, so a later-arriving call can finish before an
// earlier one that is still waiting on approval.
//
// # Terminal states
//
// [PhaseSucceeded], [PhaseFailed], and [PhaseCancelled] are terminal: once
// a call reaches one, no further transition touches it. When every
// in-flight call is terminal, the batch-completion notification fires
// exactly once with the terminal list and the list clears.
//
// # Failure semantics
//
// Lookup failures, approval-determination failures, and handler errors are
// all captured as terminal [PhaseFailed] states rather than propagated.
// Nothing here retries automatically; retry is the caller's responsibility
// via the retry package. Cancellation is distinguished from failure: a
// handler returning an abort error terminates in [PhaseCancelled].
//
// # Notifications
//
// Every transition emits the full in-flight list to the configured
// [Notifier]. Notification is best-effort; sink panics are swallowed and
// never reach the scheduler.
package call
