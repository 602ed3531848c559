package call

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/toolcall/retry"
	"github.com/jonwraymond/toolcall/tool"
)

// ErrConfiguration indicates an invalid or incomplete scheduler
// configuration.
var ErrConfiguration = errors.New("configuration error")

// Config holds the configuration for a scheduler.
type Config struct {
	// Tools is the registry consulted for tool lookup.
	// Required.
	Tools *tool.Registry

	// Policy supplies the approval mode, consulted once per call during
	// validation. Optional; nil behaves like tool.ModeDefault.
	Policy tool.Policy

	// Notifier receives best-effort state notifications.
	// Optional.
	Notifier Notifier

	// Logger is an optional logger for observability.
	Logger Logger
}

// Validate checks that all required fields are set.
// Returns ErrConfiguration if any required field is missing.
func (c *Config) Validate() error {
	if c.Tools == nil {
		return fmt.Errorf("%w: missing required field Tools", ErrConfiguration)
	}
	return nil
}

// inflightCall is the scheduler-owned live state for one call. The embedded
// Call is the externally visible snapshot; def and args are execution
// inputs resolved during validation and approval.
type inflightCall struct {
	call Call
	def  tool.Def
	args map[string]any
}

// Scheduler owns the canonical list of in-flight tool calls and drives each
// through its state machine to a terminal phase.
//
// Contract:
// - Concurrency: safe for concurrent use; handlers run on their own
//   goroutines and state transitions are serialized internally.
// - Context: the scheduling context is propagated to approval hooks and
//   handlers; an executing handler is never forcibly interrupted, it only
//   receives the signal.
// - Errors: lookup, approval, and execution failures become terminal call
//   states rather than propagating; nothing here retries automatically.
type Scheduler struct {
	cfg Config

	mu       sync.Mutex
	inflight []*inflightCall
	waiters  map[string]chan Call
}

// NewScheduler creates a scheduler with the given configuration.
// Returns ErrConfiguration if any required field is missing.
func NewScheduler(cfg Config) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		cfg:     cfg,
		waiters: make(map[string]chan Call),
	}, nil
}

// Schedule appends the requests to the in-flight list in order, validates
// each, and begins executing every call that needs no approval. It returns
// without waiting for execution to finish; observe completion through the
// Notifier or ScheduleOne.
func (s *Scheduler) Schedule(ctx context.Context, reqs ...Request) {
	s.mu.Lock()
	added := make([]*inflightCall, 0, len(reqs))
	for _, r := range reqs {
		ic := &inflightCall{
			call: Call{Request: r, Phase: PhaseValidating},
			args: r.Args,
		}
		s.inflight = append(s.inflight, ic)
		added = append(added, ic)
	}
	s.mu.Unlock()
	s.notifyUpdate()

	for _, ic := range added {
		s.validate(ctx, ic)
	}
	s.drive(ctx)
}

// ScheduleOne schedules a single request and returns a channel that
// receives the call's terminal snapshot.
func (s *Scheduler) ScheduleOne(ctx context.Context, req Request) <-chan Call {
	ch := make(chan Call, 1)
	s.mu.Lock()
	s.waiters[req.ID] = ch
	s.mu.Unlock()
	s.Schedule(ctx, req)
	return ch
}

// validate looks the tool up and makes the approval decision for one call.
func (s *Scheduler) validate(ctx context.Context, ic *inflightCall) {
	req := ic.call.Request

	def, ok := s.cfg.Tools.Get(req.Name)
	if !ok {
		s.transition(ic, func(c *Call) {
			c.Phase = PhaseFailed
			c.Err = fmt.Errorf("%w: %q", tool.ErrNotFound, req.Name)
		})
		return
	}
	s.mu.Lock()
	ic.def = def
	s.mu.Unlock()

	if err := retry.Check(ctx); err != nil {
		s.transition(ic, func(c *Call) {
			c.Phase = PhaseCancelled
			c.CancelReason = "scheduling aborted"
		})
		return
	}

	mode := tool.ModeDefault
	if s.cfg.Policy != nil {
		mode = s.cfg.Policy.Mode()
	}
	conf, err := tool.NeedsConfirmation(ctx, def, req.Args, mode)
	if err != nil {
		s.transition(ic, func(c *Call) {
			c.Phase = PhaseFailed
			c.Err = err
		})
		return
	}
	if conf != nil {
		s.transition(ic, func(c *Call) {
			c.Phase = PhaseAwaitingApproval
			c.Confirmation = conf
		})
		return
	}
	s.transition(ic, func(c *Call) {
		c.Phase = PhaseScheduled
	})
}

// HandleConfirmation applies a confirmation outcome to a call parked in
// PhaseAwaitingApproval. A cancel outcome, or an already-canceled context,
// cancels the call; any other outcome schedules it for execution, with
// payload (if non-nil) replacing the call's arguments.
func (s *Scheduler) HandleConfirmation(ctx context.Context, callID string, outcome Outcome, payload map[string]any) error {
	s.mu.Lock()
	var target *inflightCall
	for _, ic := range s.inflight {
		if ic.call.Request.ID == callID {
			target = ic
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return fmt.Errorf("no in-flight call %q", callID)
	}
	if target.call.Phase != PhaseAwaitingApproval {
		phase := target.call.Phase
		s.mu.Unlock()
		return fmt.Errorf("call %q is not awaiting approval (phase %s)", callID, phase)
	}
	s.mu.Unlock()

	if outcome == OutcomeCancel || ctx.Err() != nil {
		reason := "user declined"
		if err := ctx.Err(); err != nil {
			reason = err.Error()
		}
		s.transition(target, func(c *Call) {
			c.Phase = PhaseCancelled
			c.CancelReason = reason
			c.Confirmation = nil
		})
	} else {
		s.mu.Lock()
		if payload != nil {
			target.args = payload
		}
		s.mu.Unlock()
		s.transition(target, func(c *Call) {
			c.Phase = PhaseScheduled
			c.Confirmation = nil
		})
	}
	s.drive(ctx)
	return nil
}

// drive starts execution for every call currently scheduled, then checks
// for batch completion. It runs after every external event: scheduling, a
// confirmation outcome, and each execution completion.
func (s *Scheduler) drive(ctx context.Context) {
	s.mu.Lock()
	var ready []*inflightCall
	for _, ic := range s.inflight {
		if ic.call.Phase == PhaseScheduled {
			ic.call.Phase = PhaseExecuting
			ic.call.StartedAt = time.Now()
			ready = append(ready, ic)
		}
	}
	s.mu.Unlock()

	if len(ready) > 0 {
		s.notifyUpdate()
	}
	for _, ic := range ready {
		go s.execute(ctx, ic)
	}
	s.settle()
}

// execute runs one call's handler and records the terminal state.
func (s *Scheduler) execute(ctx context.Context, ic *inflightCall) {
	s.mu.Lock()
	def := ic.def
	args := ic.args
	start := ic.call.StartedAt
	s.mu.Unlock()

	res, err := def.Execute(ctx, args)
	elapsed := time.Since(start)

	s.transition(ic, func(c *Call) {
		c.Duration = elapsed
		switch {
		case err == nil:
			c.Phase = PhaseSucceeded
			c.Response = res
		case retry.IsAbort(err):
			c.Phase = PhaseCancelled
			c.CancelReason = err.Error()
		default:
			c.Phase = PhaseFailed
			c.Err = err
		}
	})
	s.drive(ctx)
}

// transition applies fn to the live call unless it is already terminal,
// then notifies observers and resolves any waiter for a newly terminal
// call. Terminal states are immutable: fn never runs against one.
func (s *Scheduler) transition(ic *inflightCall, fn func(c *Call)) bool {
	s.mu.Lock()
	if ic.call.Phase.Terminal() {
		s.mu.Unlock()
		return false
	}
	fn(&ic.call)
	phase := ic.call.Phase
	id := ic.call.Request.ID
	s.mu.Unlock()

	s.logf("call %s: %s", id, phase)
	s.notifyUpdate()
	if phase.Terminal() {
		s.resolveWaiter(ic)
	}
	return true
}

// resolveWaiter delivers a terminal call snapshot to its ScheduleOne
// channel, if any.
func (s *Scheduler) resolveWaiter(ic *inflightCall) {
	s.mu.Lock()
	id := ic.call.Request.ID
	ch, ok := s.waiters[id]
	if ok {
		delete(s.waiters, id)
	}
	snapshot := ic.call
	s.mu.Unlock()

	if ok {
		ch <- snapshot
	}
}

// settle fires the batch-completion notification once every in-flight call
// is terminal, clearing the list in the same critical section so the
// notification cannot fire twice.
func (s *Scheduler) settle() {
	s.mu.Lock()
	if len(s.inflight) == 0 {
		s.mu.Unlock()
		return
	}
	for _, ic := range s.inflight {
		if !ic.call.Phase.Terminal() {
			s.mu.Unlock()
			return
		}
	}
	done := make([]Call, len(s.inflight))
	for i, ic := range s.inflight {
		done[i] = ic.call
	}
	s.inflight = nil
	s.mu.Unlock()

	s.logf("batch complete: %d calls", len(done))
	if s.cfg.Notifier != nil {
		notify(func() { s.cfg.Notifier.BatchComplete(done) })
	}
}

// Running reports whether any call is executing or awaiting approval.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ic := range s.inflight {
		if ic.call.Phase == PhaseExecuting || ic.call.Phase == PhaseAwaitingApproval {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the in-flight list.
func (s *Scheduler) Snapshot() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.inflight))
	for i, ic := range s.inflight {
		out[i] = ic.call
	}
	return out
}

// AbortAll clears the in-flight list unconditionally. This is a hard reset,
// not a graceful per-call cancellation: no batch completion fires, and
// executing handlers are left to observe their own context.
func (s *Scheduler) AbortAll() {
	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()
	s.notifyUpdate()
}

// notifyUpdate sends the current in-flight snapshot to the notifier.
func (s *Scheduler) notifyUpdate() {
	if s.cfg.Notifier == nil {
		return
	}
	s.mu.Lock()
	snapshot := make([]Call, len(s.inflight))
	for i, ic := range s.inflight {
		snapshot[i] = ic.call
	}
	s.mu.Unlock()
	notify(func() { s.cfg.Notifier.CallsUpdated(snapshot) })
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Logf(format, args...)
	}
}
