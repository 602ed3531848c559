package call

// Notifier receives best-effort notifications about scheduler state. It is
// the seam toward observers such as a chat UI.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: notification is best-effort; panics are swallowed by the
//   scheduler and never propagate back into scheduling.
// - Ownership: the slices passed in are snapshots owned by the receiver.
type Notifier interface {
	// CallsUpdated fires after every state transition with the full
	// in-flight list.
	CallsUpdated(calls []Call)

	// BatchComplete fires exactly once when every in-flight call has
	// reached a terminal phase, carrying the terminal list. The in-flight
	// list is empty by the time this fires.
	BatchComplete(calls []Call)
}

// notify invokes fn, swallowing any panic from the sink.
func notify(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
