package document

import (
	"sort"
	"strconv"
	"strings"

	"dario.cat/mergo"
)

// ExtractEmbeddedFieldUpdates partitions a flat update map into top-level
// field updates and embedded-collection replace operations.
//
// A key like "items.<id-or-index>.system.value" whose first segment names a
// genuine embedded collection on the document is routed into a Replace
// operation against that entry; the nested field path is deep-merged into
// the per-entry payload, seeded from the entry's current value at the
// touched path so unrelated existing fields survive. Plain-object values
// merge; non-object values overwrite outright. Multiple keys targeting the
// same entry coalesce into a single Replace. All other keys pass through
// unchanged as ordinary top-level updates.
func ExtractEmbeddedFieldUpdates(src Source, updates map[string]any) (map[string]any, map[string][]Operation, error) {
	topLevel := make(map[string]any)
	embedded := make(map[string][]Operation)

	// Per (collection, entry) payload under construction, in first-seen
	// order for deterministic output.
	type targetKey struct {
		collection string
		id         string
	}
	payloads := make(map[targetKey]map[string]any)
	var order []targetKey

	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	routed := 0
	for _, key := range keys {
		parts := strings.Split(key, ".")
		if len(parts) < 3 {
			topLevel[key] = updates[key]
			continue
		}
		collection := parts[0]
		members, ok := src.EmbeddedCollection(collection)
		if !ok {
			topLevel[key] = updates[key]
			continue
		}
		routed++

		entry, err := resolveFieldTarget(members, parts[1], collection, routed)
		if err != nil {
			return nil, nil, err
		}

		tk := targetKey{collection: collection, id: entry.ID}
		payload, ok := payloads[tk]
		if !ok {
			payload = map[string]any{idField: entry.ID}
			payloads[tk] = payload
			order = append(order, tk)
		}

		// Seed the payload with the entry's current value at the touched
		// top field so the merge preserves unrelated siblings.
		top := parts[2]
		if _, seeded := payload[top]; !seeded {
			if existing, ok := entry.Data[top].(map[string]any); ok {
				payload[top] = cloneMap(existing)
			}
		}

		nested := cloneValue(updates[key])
		for i := len(parts) - 1; i >= 2; i-- {
			nested = map[string]any{parts[i]: nested}
		}
		update := nested.(map[string]any)
		if err := mergo.Merge(&payload, update, mergo.WithOverride); err != nil {
			return nil, nil, opError(routed, collection, "merging %q: %v", key, err)
		}
		payloads[tk] = payload
	}

	for _, tk := range order {
		embedded[tk.collection] = append(embedded[tk.collection], Operation{
			Action: ActionReplace,
			Path:   tk.collection,
			ID:     tk.id,
			Value:  payloads[tk],
		})
	}
	return topLevel, embedded, nil
}

// resolveFieldTarget finds the entry addressed by an id or a position in
// sort order.
func resolveFieldTarget(members []Entry, target, collection string, pos int) (Entry, error) {
	for _, e := range members {
		if e.ID == target {
			return e, nil
		}
	}
	if i, err := strconv.Atoi(target); err == nil {
		sorted := make([]Entry, len(members))
		copy(sorted, members)
		sort.SliceStable(sorted, func(a, b int) bool {
			return sorted[a].SortKey < sorted[b].SortKey
		})
		if i < 0 || i >= len(sorted) {
			return Entry{}, opError(pos, collection, "index %d out of bounds (collection has %d entries)", i, len(sorted))
		}
		return sorted[i], nil
	}
	return Entry{}, opError(pos, collection, "no entry with id %q", target)
}
