package parse

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/toolcall/call"
	"github.com/jonwraymond/toolcall/tool"
)

// StructuredCall is one native structured tool call from a model response.
type StructuredCall struct {
	// Name is the requested tool name.
	Name string `json:"name"`

	// Args are the requested arguments.
	Args map[string]any `json:"args"`
}

// NewRequest mints a call request with a fresh id combining the tool name,
// a timestamp, and random entropy. Ids are unique within a process run but
// not globally unique or persisted across runs.
func NewRequest(name string, args map[string]any, promptID string) call.Request {
	id := fmt.Sprintf("%s-%d-%s", name, time.Now().UnixMilli(), uuid.NewString()[:8])
	return call.Request{
		ID:       id,
		Name:     name,
		Args:     args,
		PromptID: promptID,
	}
}

// FromStructured converts native structured calls into call requests,
// preserving order.
func FromStructured(calls []StructuredCall, promptID string) []call.Request {
	out := make([]call.Request, 0, len(calls))
	for _, c := range calls {
		if c.Name == "" {
			continue
		}
		out = append(out, NewRequest(c.Name, c.Args, promptID))
	}
	return out
}

// FromText extracts tool calls from free-form model text. Fenced code
// blocks are tried first, then bare {...} spans in the remaining text. A
// block becomes a call only if it parses as a JSON object carrying both a
// "name" and an "args" field; everything else is silently skipped. This is
// a best-effort extraction, not a strict grammar.
func FromText(text, promptID string) []call.Request {
	blocks, remainder := fencedBlocks(text)
	blocks = append(blocks, braceSpans(remainder)...)

	var out []call.Request
	for _, block := range blocks {
		var parsed struct {
			Name string         `json:"name"`
			Args map[string]any `json:"args"`
		}
		if err := json.Unmarshal([]byte(block), &parsed); err != nil {
			continue
		}
		if parsed.Name == "" || parsed.Args == nil {
			continue
		}
		out = append(out, NewRequest(parsed.Name, parsed.Args, promptID))
	}
	return out
}

// ValidateToolCall performs a shallow validity check on a call: the tool
// must be registered and every declared required parameter must be present
// in args. This is a presence check, not full schema validation.
func ValidateToolCall(reg *tool.Registry, name string, args map[string]any) error {
	def, ok := reg.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", tool.ErrNotFound, name)
	}
	for _, required := range def.RequiredParams() {
		if _, ok := args[required]; !ok {
			return fmt.Errorf("tool %q: missing required parameter %q", name, required)
		}
	}
	return nil
}
