package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore keeps session state in Redis so an attempt survives a process
// restart mid-question.
// Notes:
//   - Keys are written with a TTL; an abandoned attempt eventually expires
//     instead of lingering forever.
//   - Reads and writes are best-effort: the driver treats a missing value the
//     same as a fresh start, so transient Redis failures degrade to a restart
//     rather than an error.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	return &StateStore{client: client, ttl: ttl}
}

func (s *StateStore) Get(key string) (string, bool) {
	value, err := s.client.Get(context.Background(), key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *StateStore) Set(key, value string) {
	_ = s.client.Set(context.Background(), key, value, s.ttl).Err()
}

func (s *StateStore) Delete(key string) {
	_ = s.client.Del(context.Background(), key).Err()
}
