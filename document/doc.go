// Package document translates flat, possibly dotted-path update requests
// into validated primitive operations against a document's embedded ordered
// collections, and guards mutations with a read-before-write check.
//
// The package is pure over document-shaped input: it computes operations
// but never performs storage I/O. The document store collaborator exposes
// its collections through the narrow [Source] interface.
//
// # Working sets
//
// A [Planner] is scoped to a single mutation call. On first touch of a
// collection it snapshots the member list as (id, sort key) pairs sorted
// ascending, and every subsequent operation in the same call reads and
// mutates that snapshot, so sequential inserts and deletes see each other's
// effects without re-reading the store.
//
// # Fractional sort keys
//
// Insertion computes an ordering key in O(1) without renumbering existing
// entries: 0 into an empty collection, first−1000 before the first entry,
// last+1000 after the last, and the midpoint of the two neighbors anywhere
// between (equal neighbors reuse their value). Repeatedly splitting the
// same gap eventually exhausts float precision; the engine accepts this
// rather than rebalancing.
//
// # Dotted paths
//
// [ExtractEmbeddedFieldUpdates] routes keys like "items.<id>.system.value"
// into coalesced per-entry Replace operations with deep-merged payloads,
// passing every other key through as an ordinary top-level update.
// [PerformArrayOperation] is the simpler sibling for plain ordered lists.
//
// # Read-before-write
//
// [ReadRegistry] records a content hash when a document is read and rejects
// mutations with [ErrNotRead] or [ErrStale] when the document was never
// read or has changed since. Every validation failure elsewhere in the
// package carries the offending operation's 1-based position and collection
// key, since those messages are the feedback loop for a model correcting
// its own mistakes.
package document
