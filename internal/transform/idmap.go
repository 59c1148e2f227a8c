package transform

// IDMap assigns sequential integers to opaque identifier strings. The first
// distinct identifier seen maps to 1, the second to 2, and so on; looking up
// an already-seen identifier always returns its original integer. There is no
// removal operation.
//
// IDMap is not safe for concurrent use. The run loop is single-threaded by
// design; a concurrent caller must serialize access externally.
type IDMap struct {
	next int
	ids  map[string]int
}

// NewIDMap returns an empty mapper whose first assignment will be 1.
func NewIDMap() *IDMap {
	return &IDMap{next: 1, ids: make(map[string]int)}
}

// Assign returns the integer for id, allocating the next one in first-seen
// order when id has not been observed before.
func (m *IDMap) Assign(id string) int {
	if n, ok := m.ids[id]; ok {
		return n
	}
	n := m.next
	m.ids[id] = n
	m.next++
	return n
}

// Len reports how many distinct identifiers have been assigned.
func (m *IDMap) Len() int { return len(m.ids) }
