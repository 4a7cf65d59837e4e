package meta

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"kusafe-quiz-client/internal/domain"
)

// MetaLoader fetches quiz metadata from the platform API.
type MetaLoader interface {
	QuizMeta(ctx context.Context, quizID string) (domain.QuizMeta, error)
}

// Cache keeps quiz metadata with a TTL so the progress indicator does not
// re-fetch on every attempt. Concurrent misses for the same quiz collapse
// into one request.
type Cache struct {
	loader MetaLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedMeta
}

type cachedMeta struct {
	meta      domain.QuizMeta
	expiresAt time.Time
}

func NewCache(loader MetaLoader, ttl time.Duration) *Cache {
	return &Cache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedMeta),
	}
}

func (c *Cache) QuizMeta(ctx context.Context, quizID string) (domain.QuizMeta, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.meta, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[quizID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.meta, nil
		}
		c.mu.RUnlock()

		meta, err := c.loader.QuizMeta(ctx, quizID)
		if err != nil {
			return domain.QuizMeta{}, err
		}

		c.mu.Lock()
		c.cache[quizID] = cachedMeta{
			meta:      meta,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return meta, nil
	})
	if err != nil {
		return domain.QuizMeta{}, err
	}
	return result.(domain.QuizMeta), nil
}

func (c *Cache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
