package redis

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestIdempotencyFirstClaim(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, stored, err := store.CheckAndSet(ctx, "txn-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if exists {
		t.Fatalf("expected first claim to win")
	}
	if stored != nil {
		t.Fatalf("expected no stored response, got %q", stored)
	}
}

func TestIdempotencyReplayReturnsStoredResponse(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	response := []byte(`{"balance":"700"}`)

	if _, _, err := store.CheckAndSet(ctx, "txn-1", nil, time.Minute); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := store.Update(ctx, "txn-1", response, time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, stored, err := store.CheckAndSet(ctx, "txn-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("replay check failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected replay to find existing key")
	}
	if !bytes.Equal(stored, response) {
		t.Fatalf("expected stored response %q, got %q", response, stored)
	}
}

func TestIdempotencyInFlightPlaceholder(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "txn-1", nil, time.Minute); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	exists, stored, err := store.CheckAndSet(ctx, "txn-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("second check failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected in-flight key to be reported as existing")
	}
	if string(stored) != "processing" {
		t.Fatalf("expected placeholder, got %q", stored)
	}
}
