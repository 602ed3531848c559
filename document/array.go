package document

import "slices"

// PerformArrayOperation applies one operation to a plain ordered list (not
// an entity collection), returning a shallow clone with the change applied.
// Delete and replace require an explicit in-bounds index; insert defaults
// to append. pos is the operation's 1-based position for error context.
func PerformArrayOperation(arr []any, op Operation, pos int) ([]any, error) {
	out := slices.Clone(arr)

	switch op.Action {
	case ActionDelete:
		if op.Index == nil {
			return nil, opError(pos, op.Path, "delete requires an index")
		}
		i := *op.Index
		if i < 0 || i >= len(out) {
			return nil, opError(pos, op.Path, "index %d out of bounds (array has %d elements)", i, len(out))
		}
		return slices.Delete(out, i, i+1), nil

	case ActionReplace:
		if op.Index == nil {
			return nil, opError(pos, op.Path, "replace requires an index")
		}
		i := *op.Index
		if i < 0 || i >= len(out) {
			return nil, opError(pos, op.Path, "index %d out of bounds (array has %d elements)", i, len(out))
		}
		out[i] = op.Value
		return out, nil

	case ActionInsert:
		i := len(out)
		if op.Index != nil {
			i = *op.Index
			if i < 0 || i > len(out) {
				return nil, opError(pos, op.Path, "insert index %d out of bounds (array has %d elements)", i, len(out))
			}
		}
		return slices.Insert(out, i, op.Value), nil

	default:
		return nil, opError(pos, op.Path, "unsupported action %q", op.Action)
	}
}
