package call

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/toolcall/tool"
)

// mockNotifier records update notifications and delivers batch completions
// on a channel so tests can wait for them.
type mockNotifier struct {
	mu      sync.Mutex
	updates [][]Call
	batches chan []Call
}

// Verify interface compliance
var _ Notifier = (*mockNotifier)(nil)

func newMockNotifier() *mockNotifier {
	return &mockNotifier{batches: make(chan []Call, 4)}
}

func (n *mockNotifier) CallsUpdated(calls []Call) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, calls)
}

func (n *mockNotifier) BatchComplete(calls []Call) {
	n.batches <- calls
}

func (n *mockNotifier) waitBatch(t *testing.T) []Call {
	t.Helper()
	select {
	case batch := <-n.batches:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch completion")
		return nil
	}
}

func (n *mockNotifier) assertNoBatch(t *testing.T) {
	t.Helper()
	select {
	case batch := <-n.batches:
		t.Fatalf("unexpected batch completion: %d calls", len(batch))
	case <-time.After(50 * time.Millisecond):
	}
}

// sawPhase reports whether any recorded update contained the call in the
// given phase.
func (n *mockNotifier) sawPhase(callID string, phase Phase) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, update := range n.updates {
		for _, c := range update {
			if c.Request.ID == callID && c.Phase == phase {
				return true
			}
		}
	}
	return false
}

// echoTool returns args["v"].
func echoTool() tool.Def {
	return tool.Def{
		Name: "echo",
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			return args["v"], nil
		},
	}
}

// confirmTool always asks for confirmation before executing.
func confirmTool(executed *int32) tool.Def {
	return tool.Def{
		Name: "update_document",
		Execute: func(ctx context.Context, args map[string]any) (any, error) {
			if executed != nil {
				*executed++
			}
			return "updated", nil
		},
		Confirm: func(ctx context.Context, args map[string]any) (*tool.Confirmation, error) {
			return &tool.Confirmation{Kind: "edit", Title: "Update document"}, nil
		},
	}
}

// newTestScheduler builds a scheduler over the given tools with a mock
// notifier attached.
func newTestScheduler(t *testing.T, defs ...tool.Def) (*Scheduler, *mockNotifier) {
	t.Helper()
	reg := tool.NewRegistry()
	for _, d := range defs {
		if err := reg.Register(d); err != nil {
			t.Fatalf("register %s: %v", d.Name, err)
		}
	}
	notifier := newMockNotifier()
	s, err := NewScheduler(Config{Tools: reg, Notifier: notifier})
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	return s, notifier
}

// pollUntil retries cond for up to two seconds.
func pollUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// findCall locates a call by id in a slice of snapshots.
func findCall(t *testing.T, calls []Call, id string) Call {
	t.Helper()
	for _, c := range calls {
		if c.Request.ID == id {
			return c
		}
	}
	t.Fatalf("call %q not found", id)
	return Call{}
}
