package document

import (
	"crypto/rand"
	"regexp"
	"slices"
	"sort"
)

// Value keys recognized on embedded collection entries.
const (
	idField   = "_id"
	sortField = "sort"
)

// sortGap is the spacing between sort keys when inserting at either end of
// a collection, leaving room for later insertions between entries.
const sortGap = 1000

// Entry is a snapshot of one member of an ordered embedded collection.
type Entry struct {
	// ID is the entry identifier.
	ID string

	// SortKey orders the entry within its collection. Entries without a
	// sort value report 0.
	SortKey float64

	// Data is the entry's current content, used to seed replace payloads.
	Data map[string]any
}

// Source provides read access to a document's embedded ordered collections.
// It is the narrow surface the mutation engine requires from the document
// store; the engine never performs storage I/O itself.
type Source interface {
	// EmbeddedCollection returns the current member list for the named
	// collection, and whether the document has such a collection.
	EmbeddedCollection(key string) ([]Entry, bool)
}

// Prepared is a validated primitive operation with all ids, indices, and
// sort keys resolved, ready to hand to the caller's document-update API.
type Prepared struct {
	// Action is the primitive to perform.
	Action Action

	// Collection is the embedded collection key.
	Collection string

	// ID is the resolved target entry id.
	ID string

	// Index is the resolved insertion position in sorted order. Only
	// meaningful for inserts.
	Index int

	// SortKey is the fractional sort key assigned to an inserted entry. The
	// same value is injected into Value.
	SortKey float64

	// Value is the payload for insert and replace operations, with id and
	// sort key injected.
	Value map[string]any
}

// Planner validates mutation operations against a document, maintaining a
// per-collection working set so that sequential operations within one
// mutation call see each other's effects.
//
// Contract:
// - Ownership: a Planner is scoped to a single mutation call and must not
//   be reused across calls, or its working sets desync from the store.
// - Concurrency: not safe for concurrent use.
type Planner struct {
	src  Source
	sets map[string][]Entry
}

// NewPlanner creates a planner over the given document source.
func NewPlanner(src Source) *Planner {
	return &Planner{
		src:  src,
		sets: make(map[string][]Entry),
	}
}

// workingSet returns the cached sorted snapshot for a collection, building
// it on first access.
func (p *Planner) workingSet(key string, pos int) ([]Entry, error) {
	if set, ok := p.sets[key]; ok {
		return set, nil
	}
	members, ok := p.src.EmbeddedCollection(key)
	if !ok {
		return nil, opError(pos, key, "document has no embedded collection %q", key)
	}
	set := slices.Clone(members)
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].SortKey < set[j].SortKey
	})
	p.sets[key] = set
	return set, nil
}

// resolveTarget locates the operation's target entry in the sorted working
// set, by explicit id or by index, returning its position.
func resolveTarget(set []Entry, op Operation, key string, pos int) (int, error) {
	if op.ID != "" {
		for i, e := range set {
			if e.ID == op.ID {
				return i, nil
			}
		}
		return 0, opError(pos, key, "no entry with id %q", op.ID)
	}
	if op.Index == nil {
		return 0, opError(pos, key, "%s requires an id or index", op.Action)
	}
	i := *op.Index
	if i < 0 || i >= len(set) {
		return 0, opError(pos, key, "index %d out of bounds (collection has %d entries)", i, len(set))
	}
	return i, nil
}

// Prepare validates one operation against the named collection and resolves
// it to a primitive. pos is the operation's 1-based position in its batch.
func (p *Planner) Prepare(collection string, op Operation, pos int) (Prepared, error) {
	set, err := p.workingSet(collection, pos)
	if err != nil {
		return Prepared{}, err
	}

	switch op.Action {
	case ActionDelete:
		i, err := resolveTarget(set, op, collection, pos)
		if err != nil {
			return Prepared{}, err
		}
		target := set[i]
		p.sets[collection] = slices.Delete(set, i, i+1)
		return Prepared{Action: ActionDelete, Collection: collection, ID: target.ID}, nil

	case ActionReplace:
		i, err := resolveTarget(set, op, collection, pos)
		if err != nil {
			return Prepared{}, err
		}
		value, ok := op.Value.(map[string]any)
		if !ok {
			return Prepared{}, opError(pos, collection, "replace value must be an object")
		}
		prior := set[i]
		value = cloneMap(value)
		if _, ok := value[idField]; !ok {
			value[idField] = prior.ID
		}
		// Carry the prior sort key so replace does not silently reorder.
		if _, ok := value[sortField]; !ok {
			value[sortField] = prior.SortKey
		}
		set[i] = Entry{ID: prior.ID, SortKey: prior.SortKey, Data: value}
		return Prepared{Action: ActionReplace, Collection: collection, ID: prior.ID, Index: i, Value: value}, nil

	case ActionInsert:
		value, ok := op.Value.(map[string]any)
		if !ok {
			return Prepared{}, opError(pos, collection, "insert value must be an object")
		}
		i := len(set)
		if op.Index != nil {
			i = *op.Index
			if i < 0 || i > len(set) {
				return Prepared{}, opError(pos, collection, "insert index %d out of bounds (collection has %d entries)", i, len(set))
			}
		}
		value = cloneMap(value)
		id, _ := value[idField].(string)
		if !validEntryID(id) {
			id = newEntryID()
		}
		key := nextSortKey(set, i)
		value[idField] = id
		value[sortField] = key
		p.sets[collection] = slices.Insert(set, i, Entry{ID: id, SortKey: key, Data: value})
		return Prepared{Action: ActionInsert, Collection: collection, ID: id, Index: i, SortKey: key, Value: value}, nil

	default:
		return Prepared{}, opError(pos, collection, "unsupported action %q", op.Action)
	}
}

// nextSortKey computes the sort key for inserting at index i into a sorted
// working set. Midpoint insertion keeps the computation O(1) with no
// renumbering of existing entries; repeated splits of the same gap will
// eventually exhaust float precision, which is accepted rather than
// rebalanced.
func nextSortKey(set []Entry, i int) float64 {
	if len(set) == 0 {
		return 0
	}
	if i <= 0 {
		return set[0].SortKey - sortGap
	}
	if i >= len(set) {
		return set[len(set)-1].SortKey + sortGap
	}
	lo, hi := set[i-1].SortKey, set[i].SortKey
	if lo == hi {
		return lo
	}
	return (lo + hi) / 2
}

// entryIDPattern matches well-formed 16-character alphanumeric entry ids.
var entryIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{16}$`)

// validEntryID reports whether s is a well-formed entry id.
func validEntryID(s string) bool {
	return entryIDPattern.MatchString(s)
}

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// newEntryID generates a fresh 16-character alphanumeric entry id.
func newEntryID() string {
	var buf [16]byte
	rand.Read(buf[:])
	for i := range buf {
		buf[i] = idAlphabet[int(buf[i])%len(idAlphabet)]
	}
	return string(buf[:])
}
