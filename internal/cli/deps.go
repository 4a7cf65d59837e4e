package cli

import (
	"time"

	goredis "github.com/redis/go-redis/v9"

	"kusafe-quiz-client/internal/api"
	"kusafe-quiz-client/internal/config"
	"kusafe-quiz-client/internal/infra/memory"
	redisstore "kusafe-quiz-client/internal/infra/redis"
	"kusafe-quiz-client/internal/session"
)

// buildStore picks the state store: Redis when configured (so attempts and
// tokens survive across runs), otherwise in-memory for one-shot use.
func buildStore(cfg config.Config) session.StateStore {
	if cfg.Redis.Addr == "" {
		return memory.NewStateStore()
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ttl := config.Duration(cfg.Redis.TTL, 30*time.Minute)
	return redisstore.NewStateStore(client, ttl)
}

func buildClient(cfg config.Config, baseURL string, store session.StateStore) (*api.Client, *api.TokenStore) {
	if cfg.API.BaseURL != "" {
		baseURL = cfg.API.BaseURL
	}
	tokens := api.NewTokenStore(store)
	client := api.NewClient(api.Config{
		BaseURL: baseURL,
		Timeout: config.Duration(cfg.API.Timeout, 15*time.Second),
	}, tokens)
	return client, tokens
}
