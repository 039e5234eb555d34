// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"

	"affiliatedesk/internal/dispatch"
	"affiliatedesk/internal/models"
	"affiliatedesk/internal/store"
)

const testPrefix = "desktest:"

// Compile-time checks that the Valkey types plug into the store and the
// broadcast session.
var (
	_ store.Adapter    = (*KV)(nil)
	_ dispatch.SentSet = (*SentSet)(nil)
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, testPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "", 15)
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestKVSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	kv := NewKV(client, testPrefix)
	ctx := context.Background()

	// Miss.
	data, ok, err := kv.Get(ctx, "products")
	if err != nil || ok || data != nil {
		t.Fatalf("Get on empty store = %q, %v, %v; want miss", data, ok, err)
	}

	if err := kv.Set(ctx, "products", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err = kv.Get(ctx, "products")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v", ok, err)
	}
	if string(data) != `[]` {
		t.Errorf("Get = %q, want []", data)
	}

	if err := kv.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "products"); ok {
		t.Error("key survived Clear")
	}
}

func TestKVBacksStore(t *testing.T) {
	client := testValkeyClient(t)
	kv := NewKV(client, testPrefix)
	ctx := context.Background()

	st := store.New(kv)
	st.Products.Create(ctx, models.Product{Name: "Serum", Link: "https://tokopedia.link/serum-vitc"})

	reloaded := store.New(kv)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(st.Products.List(), reloaded.Products.List()); diff != "" {
		t.Errorf("products (-want +got):\n%s", diff)
	}
}

func TestSentSet(t *testing.T) {
	client := testValkeyClient(t)
	set := NewSentSet(client, testPrefix+"sent")
	ctx := context.Background()

	if err := set.Add(ctx, "b", "a"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := set.Add(ctx, "a", "c"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := set.Add(ctx); err != nil {
		t.Fatalf("Add with no ids: %v", err)
	}

	members, err := set.Members(ctx)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, members); diff != "" {
		t.Errorf("members (-want +got):\n%s", diff)
	}

	ok, err := set.Contains(ctx, "b")
	if err != nil || !ok {
		t.Errorf("Contains(b) = %v, %v", ok, err)
	}

	if err := set.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if ok, _ := set.Contains(ctx, "b"); ok {
		t.Error("Contains(b) after Reset = true")
	}
}
