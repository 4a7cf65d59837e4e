package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestStateStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStateStore(client, time.Minute)

	store.Set("quiz:quiz-1:startPayload", `{"attemptId":"a1"}`)
	if !mr.Exists("quiz:quiz-1:startPayload") {
		t.Fatalf("expected redis key to be set")
	}

	value, ok := store.Get("quiz:quiz-1:startPayload")
	if !ok || value != `{"attemptId":"a1"}` {
		t.Fatalf("expected stored value, got %q ok=%v", value, ok)
	}

	store.Delete("quiz:quiz-1:startPayload")
	if mr.Exists("quiz:quiz-1:startPayload") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestStateStoreExpiresWithTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStateStore(client, time.Minute)

	store.Set("quiz:quiz-1:startPayload", "{}")
	mr.FastForward(2 * time.Minute)

	if _, ok := store.Get("quiz:quiz-1:startPayload"); ok {
		t.Fatalf("expected abandoned attempt to expire")
	}
}
