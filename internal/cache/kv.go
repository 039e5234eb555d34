// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// kv.go stores record collections as plain Valkey strings. Values never
// expire; the store rewrites a key wholesale on every mutation.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the desk writes.
const DefaultPrefix = "desk:"

// KV is a store.Adapter backed by Valkey.
type KV struct {
	client *redis.Client
	prefix string
}

// NewKV creates a KV. An empty prefix defaults to DefaultPrefix.
func NewKV(client *redis.Client, prefix string) *KV {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &KV{client: client, prefix: prefix}
}

// Get returns the value stored under key.
func (kv *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := kv.client.Get(ctx, kv.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key without expiry.
func (kv *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := kv.client.Set(ctx, kv.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

// Clear removes every key under the prefix by scanning for it.
func (kv *KV) Clear(ctx context.Context) error {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := kv.client.Scan(ctx, cursor, kv.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("valkey scan: %w", err)
		}
		if len(keys) > 0 {
			if err := kv.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("valkey delete: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("valkey store cleared", "prefix", kv.prefix, "deleted", deleted)
	}
	return nil
}
