// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Collection is an ordered set of records persisted under one key. Every
// mutation builds a new slice and swaps it in, so a slice handed out by
// All is never changed afterwards.
type Collection[T any] struct {
	mu      sync.RWMutex
	key     string
	items   []T
	idOf    func(T) string
	adapter Adapter
}

func newCollection[T any](adapter Adapter, key string, idOf func(T) string) *Collection[T] {
	return &Collection[T]{key: key, idOf: idOf, adapter: adapter}
}

// Key returns the persistence key.
func (c *Collection[T]) Key() string {
	return c.key
}

// All returns a copy of the records in insertion order.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Find returns the record with the given id.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if c.idOf(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// FindFunc returns the first record matching match.
func (c *Collection[T]) FindFunc(match func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Append adds item at the end and persists.
func (c *Collection[T]) Append(ctx context.Context, item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]T, 0, len(c.items)+1)
	next = append(next, c.items...)
	next = append(next, item)
	c.commit(ctx, next)
}

// AppendChecked appends item if check accepts the current records. check
// runs under the write lock, so no other mutation can intervene.
func (c *Collection[T]) AppendChecked(ctx context.Context, item T, check func(items []T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := check(c.items); err != nil {
		return err
	}
	next := make([]T, 0, len(c.items)+1)
	next = append(next, c.items...)
	next = append(next, item)
	c.commit(ctx, next)
	return nil
}

// Replace swaps in item for the record with the same id. A missing id is
// a no-op: nothing changes and nothing is persisted.
func (c *Collection[T]) Replace(ctx context.Context, item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.idOf(item)
	i := slices.IndexFunc(c.items, func(v T) bool { return c.idOf(v) == id })
	if i < 0 {
		return false
	}
	next := slices.Clone(c.items)
	next[i] = item
	c.commit(ctx, next)
	return true
}

// Update applies fn to the record with the given id. fn returns the new
// value and whether anything changed.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(T) (T, bool)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.items, func(v T) bool { return c.idOf(v) == id })
	if i < 0 {
		return false
	}
	updated, changed := fn(c.items[i])
	if !changed {
		return true
	}
	next := slices.Clone(c.items)
	next[i] = updated
	c.commit(ctx, next)
	return true
}

// UpdateAll applies fn to every record and persists once if any changed.
func (c *Collection[T]) UpdateAll(ctx context.Context, fn func(T) (T, bool)) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := slices.Clone(c.items)
	changed := 0
	for i, it := range next {
		if updated, ok := fn(it); ok {
			next[i] = updated
			changed++
		}
	}
	if changed > 0 {
		c.commit(ctx, next)
	}
	return changed
}

// Remove deletes the record with the given id.
func (c *Collection[T]) Remove(ctx context.Context, id string) bool {
	return len(c.RemoveFunc(ctx, func(v T) bool { return c.idOf(v) == id })) > 0
}

// RemoveFunc deletes every record matching match in one swap and returns
// the removed records.
func (c *Collection[T]) RemoveFunc(ctx context.Context, match func(T) bool) []T {
	return c.RemoveMatching(ctx, func([]T) func(T) bool { return match })
}

// RemoveMatching is RemoveFunc with a matcher derived from the records
// themselves. plan runs under the write lock; a nil matcher removes
// nothing.
func (c *Collection[T]) RemoveMatching(ctx context.Context, plan func(items []T) func(T) bool) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	match := plan(c.items)
	if match == nil {
		return nil
	}
	var removed []T
	next := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if match(it) {
			removed = append(removed, it)
			continue
		}
		next = append(next, it)
	}
	if len(removed) > 0 {
		c.commit(ctx, next)
	}
	return removed
}

// Reset replaces every record and persists.
func (c *Collection[T]) Reset(ctx context.Context, items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commit(ctx, slices.Clone(items))
}

// commit installs next and writes it through. Persistence failures are
// logged and swallowed; the in-memory state stands. Callers hold c.mu.
func (c *Collection[T]) commit(ctx context.Context, next []T) {
	c.items = next
	if err := c.write(ctx, next); err != nil {
		slog.Warn("persist collection failed", "key", c.key, "error", err)
	}
}

func (c *Collection[T]) write(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.key, err)
	}
	if err := c.adapter.Set(ctx, c.key, payload); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

// load replaces the in-memory records with the persisted ones. A missing
// key leaves the collection empty and reports found=false. Undecodable
// data is logged and treated like a missing key.
func (c *Collection[T]) load(ctx context.Context) (found bool, err error) {
	raw, ok, err := c.adapter.Get(ctx, c.key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", c.key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	if !ok {
		return false, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.Error("decode persisted collection failed, starting empty", "key", c.key, "error", err)
		return false, nil
	}
	if len(items) > 0 {
		c.items = items
	}
	return true, nil
}

// flush writes the current records regardless of whether they changed.
func (c *Collection[T]) flush(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.write(ctx, c.items)
}
