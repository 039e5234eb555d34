// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
)

// DefaultSentKey holds the ids messaged in the current broadcast session.
const DefaultSentKey = DefaultPrefix + "broadcast:sent"

// SentSet is a broadcast sent set stored as a Valkey set, so it survives
// restarts of the server until the session is reset.
type SentSet struct {
	client *redis.Client
	key    string
}

// NewSentSet creates a SentSet. An empty key defaults to DefaultSentKey.
func NewSentSet(client *redis.Client, key string) *SentSet {
	if key == "" {
		key = DefaultSentKey
	}
	return &SentSet{client: client, key: key}
}

// Add unions ids into the set.
func (s *SentSet) Add(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	if err := s.client.SAdd(ctx, s.key, members...).Err(); err != nil {
		return fmt.Errorf("valkey sadd: %w", err)
	}
	return nil
}

// Contains reports whether id was messaged.
func (s *SentSet) Contains(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.key, id).Result()
	if err != nil {
		return false, fmt.Errorf("valkey sismember: %w", err)
	}
	return ok, nil
}

// Members returns the messaged ids, sorted.
func (s *SentSet) Members(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("valkey smembers: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

// Reset empties the set.
func (s *SentSet) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("valkey del: %w", err)
	}
	return nil
}
