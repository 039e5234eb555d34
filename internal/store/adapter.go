// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store holds the desk's record collections in memory and mirrors
// every change into a key-value persistence adapter. Each collection is
// written back wholesale under its own key; there are no partial writes.
package store

import (
	"context"
	"sync"
)

// Keys under which collections are persisted.
const (
	KeyAffiliates  = "affiliators"
	KeySamples     = "samples"
	KeyProducts    = "products"
	KeyContentBank = "contentBank"
	KeyBroadcasts  = "broadcasts"
	KeyReminders   = "reminders"
	KeyTreatments  = "treatments"
)

// Adapter is the long-lived key-value store behind the collections. Get
// reports ok=false for a key that was never written.
type Adapter interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryAdapter is an Adapter backed by a map. It is used in tests and
// when no backend is configured.
type MemoryAdapter struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryAdapter returns an empty MemoryAdapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemoryAdapter) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set stores a copy of value.
func (m *MemoryAdapter) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}
