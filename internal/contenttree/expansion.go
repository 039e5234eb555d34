package contenttree

import (
	"slices"
	"sync"
)

// Expansion tracks which categories or affiliate folders are expanded in
// the operator's view. It is presentation state and is never persisted.
type Expansion struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewExpansion returns an empty expansion set.
func NewExpansion() *Expansion {
	return &Expansion{ids: make(map[string]struct{})}
}

// Toggle flips the state of id and returns whether it is now expanded.
func (e *Expansion) Toggle(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.ids[id]; ok {
		delete(e.ids, id)
		return false
	}
	e.ids[id] = struct{}{}
	return true
}

// IsExpanded reports whether id is expanded.
func (e *Expansion) IsExpanded(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.ids[id]
	return ok
}

// Forget drops ids from the set, used after their nodes are deleted.
func (e *Expansion) Forget(ids ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, id := range ids {
		delete(e.ids, id)
	}
}

// IDs returns the expanded ids in sorted order.
func (e *Expansion) IDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, 0, len(e.ids))
	for id := range e.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
