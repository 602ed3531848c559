package document

import (
	"encoding/json"
	"math"
	"strings"
)

// Action identifies a primitive mutation against an ordered collection.
type Action string

const (
	ActionInsert  Action = "insert"
	ActionReplace Action = "replace"
	ActionDelete  Action = "delete"
)

// Operation is a normalized mutation operation. Produced by
// NormalizeOperation from a loosely-typed description; immutable afterwards.
type Operation struct {
	// Action is the primitive to perform.
	Action Action

	// Path targets the collection or field the operation applies to.
	Path string

	// ID targets a collection entry by identifier. Optional.
	ID string

	// Index targets a collection entry by position in sorted order.
	// Optional; nil means unset (insert appends).
	Index *int

	// Value is the payload for insert and replace operations.
	Value any
}

// NormalizeOperation validates a raw operation description and produces an
// Operation. pos is the 1-based position of the operation in its batch, used
// for error context.
func NormalizeOperation(raw map[string]any, pos int) (Operation, error) {
	action, _ := raw["action"].(string)
	switch Action(strings.ToLower(action)) {
	case ActionInsert, ActionReplace, ActionDelete:
	default:
		return Operation{}, opError(pos, "", "unsupported action %q", action)
	}

	path, _ := raw["path"].(string)
	if path == "" {
		return Operation{}, opError(pos, "", "missing path")
	}

	op := Operation{
		Action: Action(strings.ToLower(action)),
		Path:   path,
		Value:  raw["value"],
	}
	if id, ok := raw["id"].(string); ok {
		op.ID = id
	}

	if rawIndex, ok := raw["index"]; ok {
		index, ok := intValue(rawIndex)
		if !ok {
			return Operation{}, opError(pos, "", "index must be an integer, got %v", rawIndex)
		}
		op.Index = &index
	}
	return op, nil
}

// intValue extracts an integer from the numeric shapes JSON decoding can
// produce.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
