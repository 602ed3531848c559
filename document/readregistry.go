package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// readKey identifies a document by type and id.
type readKey struct {
	docType string
	id      string
}

// readEntry records the content hash observed when a document was read.
type readEntry struct {
	hash string
	at   time.Time
}

// ReadRegistry enforces the read-before-write invariant: a document must be
// freshly inspected, with its content hash recorded, before any mutation
// against it is accepted.
//
// This is a coarse optimistic-concurrency guard, not a transaction log: one
// hash per document, no history, and a read by any actor resets staleness.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Ownership: constructor-injected per session/conversation; callers clear
//   it at session boundaries.
type ReadRegistry struct {
	mu      sync.RWMutex
	entries map[readKey]readEntry
}

// NewReadRegistry creates an empty read registry.
func NewReadRegistry() *ReadRegistry {
	return &ReadRegistry{
		entries: make(map[readKey]readEntry),
	}
}

// contentHash computes a fast non-cryptographic hash over the canonical
// JSON serialization of data. Object keys serialize in sorted order, so the
// hash is stable across map iteration but sensitive to array order.
func contentHash(data any) string {
	b, err := json.Marshal(data)
	if err != nil {
		b = []byte(fmt.Sprintf("%#v", data))
	}
	return strconv.FormatUint(xxhash.Sum64(b), 16)
}

// RegisterRead records that a document was inspected with the given
// content, overwriting any earlier record.
func (r *ReadRegistry) RegisterRead(docType, id string, data any) {
	hash := contentHash(data)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[readKey{docType, id}] = readEntry{hash: hash, at: time.Now()}
}

// RequireFresh permits a mutation only if the document was previously read
// and its current content still matches the recorded hash. It returns a
// NotReadError if the document was never registered and a StaleError if the
// content changed since the recorded read.
func (r *ReadRegistry) RequireFresh(docType, id string, current any) error {
	r.mu.RLock()
	entry, ok := r.entries[readKey{docType, id}]
	r.mu.RUnlock()

	if !ok {
		return &NotReadError{Type: docType, ID: id}
	}
	if hash := contentHash(current); hash != entry.hash {
		return &StaleError{Type: docType, ID: id, Stored: entry.hash, Current: hash}
	}
	return nil
}

// HasBeenRead reports whether a read is recorded for the document.
func (r *ReadRegistry) HasBeenRead(docType, id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[readKey{docType, id}]
	return ok
}

// StoredHash returns the recorded content hash for the document.
func (r *ReadRegistry) StoredHash(docType, id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[readKey{docType, id}]
	return entry.hash, ok
}

// Unregister drops the record for a document, e.g. after it is deleted.
func (r *ReadRegistry) Unregister(docType, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, readKey{docType, id})
}

// Clear drops all records, e.g. on conversation reset.
func (r *ReadRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[readKey]readEntry)
}

// Size returns the number of recorded reads.
func (r *ReadRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
