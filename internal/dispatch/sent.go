package dispatch

import (
	"context"
	"slices"
	"sync"
)

// SentSet remembers which recipients were already messaged in the current
// broadcast session. It only ever grows until Reset.
type SentSet interface {
	Add(ctx context.Context, ids ...string) error
	Contains(ctx context.Context, id string) (bool, error)
	Members(ctx context.Context) ([]string, error)
	Reset(ctx context.Context) error
}

// MemorySentSet is a process-local SentSet.
type MemorySentSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewMemorySentSet returns an empty in-memory set.
func NewMemorySentSet() *MemorySentSet {
	return &MemorySentSet{ids: make(map[string]struct{})}
}

func (m *MemorySentSet) Add(_ context.Context, ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.ids[id] = struct{}{}
	}
	return nil
}

func (m *MemorySentSet) Contains(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.ids[id]
	return ok, nil
}

// Members returns the ids in sorted order.
func (m *MemorySentSet) Members(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out, nil
}

func (m *MemorySentSet) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = make(map[string]struct{})
	return nil
}
