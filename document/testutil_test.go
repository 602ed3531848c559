package document

// mockSource implements Source over a fixed set of collections.
type mockSource struct {
	collections map[string][]Entry
}

func newMockSource() *mockSource {
	return &mockSource{collections: make(map[string][]Entry)}
}

func (m *mockSource) withCollection(key string, entries ...Entry) *mockSource {
	m.collections[key] = entries
	return m
}

func (m *mockSource) EmbeddedCollection(key string) ([]Entry, bool) {
	entries, ok := m.collections[key]
	return entries, ok
}

// idx is a convenience for building index pointers in operations.
func idx(i int) *int {
	return &i
}

// threeItems is the canonical working set used across planner tests.
func threeItems() *mockSource {
	return newMockSource().withCollection("items",
		Entry{ID: "aaaaaaaaaaaaaaa1", SortKey: 10, Data: map[string]any{idField: "aaaaaaaaaaaaaaa1", "name": "Sword"}},
		Entry{ID: "aaaaaaaaaaaaaaa2", SortKey: 20, Data: map[string]any{idField: "aaaaaaaaaaaaaaa2", "name": "Shield"}},
		Entry{ID: "aaaaaaaaaaaaaaa3", SortKey: 30, Data: map[string]any{idField: "aaaaaaaaaaaaaaa3", "name": "Potion"}},
	)
}
