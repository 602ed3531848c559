package parse

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/jonwraymond/toolcall/tool"
)

func TestFromText_FencedBlockSurroundedByProse(t *testing.T) {
	text := "I'll create that monster for you.\n\n" +
		"```json\n" +
		`{"name":"create_document","args":{"name":"Goblin"}}` + "\n" +
		"```\n\n" +
		"Let me know if you want adjustments."

	reqs := FromText(text, "prompt-1")
	if len(reqs) != 1 {
		t.Fatalf("expected exactly 1 request, got %d", len(reqs))
	}
	if reqs[0].Name != "create_document" {
		t.Errorf("name = %q, want create_document", reqs[0].Name)
	}
	if reqs[0].Args["name"] != "Goblin" {
		t.Errorf("args = %v", reqs[0].Args)
	}
	if reqs[0].PromptID != "prompt-1" {
		t.Errorf("prompt id = %q", reqs[0].PromptID)
	}
}

func TestFromText_BareObject(t *testing.T) {
	text := `Sure: {"name":"roll_dice","args":{"formula":"2d6"}} — rolling now.`

	reqs := FromText(text, "")
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Name != "roll_dice" {
		t.Errorf("name = %q", reqs[0].Name)
	}
}

func TestFromText_SkipsMalformedAndIrrelevantBlocks(t *testing.T) {
	text := "```json\n{not valid json\n```\n" +
		`{"name":"missing_args"}` + "\n" +
		`{"args":{"x":1}}` + "\n" +
		`{"note":"just an object"}` + "\n" +
		`{"name":"good_tool","args":{}}`

	reqs := FromText(text, "")
	if len(reqs) != 1 {
		t.Fatalf("expected only the well-formed call, got %d", len(reqs))
	}
	if reqs[0].Name != "good_tool" {
		t.Errorf("name = %q", reqs[0].Name)
	}
}

func TestFromText_FencedBlockNotDuplicatedByBareScan(t *testing.T) {
	text := "```\n" + `{"name":"create_document","args":{"n":1}}` + "\n```"

	reqs := FromText(text, "")
	if len(reqs) != 1 {
		t.Fatalf("fenced block yielded %d requests, want 1", len(reqs))
	}
}

func TestFromText_NestedBracesInsideStrings(t *testing.T) {
	text := `{"name":"say","args":{"text":"use {curly} braces \" fine"}}`

	reqs := FromText(text, "")
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Args["text"] != `use {curly} braces " fine` {
		t.Errorf("args = %v", reqs[0].Args)
	}
}

func TestFromText_MultipleCalls(t *testing.T) {
	text := `{"name":"a","args":{}} and {"name":"b","args":{}}`

	reqs := FromText(text, "")
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	if reqs[0].Name != "a" || reqs[1].Name != "b" {
		t.Errorf("order not preserved: %q, %q", reqs[0].Name, reqs[1].Name)
	}
}

func TestFromStructured(t *testing.T) {
	calls := []StructuredCall{
		{Name: "create_document", Args: map[string]any{"name": "Goblin"}},
		{Name: "", Args: map[string]any{}}, // nameless entries are dropped
		{Name: "roll_dice", Args: nil},
	}

	reqs := FromStructured(calls, "p9")
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	if reqs[0].Name != "create_document" || reqs[1].Name != "roll_dice" {
		t.Errorf("order not preserved: %+v", reqs)
	}
}

func TestNewRequest_IDShape(t *testing.T) {
	r1 := NewRequest("create_document", nil, "p")
	r2 := NewRequest("create_document", nil, "p")

	if !strings.HasPrefix(r1.ID, "create_document-") {
		t.Errorf("id %q does not start with the tool name", r1.ID)
	}
	if r1.ID == r2.ID {
		t.Error("expected unique ids for consecutive requests")
	}
}

func testRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	reg := tool.NewRegistry()
	err := reg.Register(tool.Def{
		Name: "update_document",
		InputSchema: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"documentId", "updates"},
		},
		Execute: func(ctx context.Context, args map[string]any) (any, error) { return nil, nil },
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func TestValidateToolCall(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantErr bool
	}{
		{"all required present", "update_document", map[string]any{"documentId": "x", "updates": map[string]any{}}, false},
		{"missing required", "update_document", map[string]any{"documentId": "x"}, true},
		{"nil args with required", "update_document", nil, true},
		{"unknown tool", "no_such_tool", map[string]any{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateToolCall(reg, tt.tool, tt.args)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateToolCall_UnknownToolSentinel(t *testing.T) {
	reg := testRegistry(t)
	err := ValidateToolCall(reg, "no_such_tool", nil)
	if !errors.Is(err, tool.ErrNotFound) {
		t.Errorf("expected tool.ErrNotFound, got %v", err)
	}
}
