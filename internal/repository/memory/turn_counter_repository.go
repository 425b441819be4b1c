package memory

import (
	"context"
	"sync"
	"time"

	"ai-docchat-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// TurnCounterRepository keeps per-conversation turn indexes in process memory.
// Counters expire with conversation inactivity. Not linearizable across multiple
// instances; use the Redis counter when running replicas.
type TurnCounterRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewTurnCounterRepository() contract.TurnCounterRepository {
	// Conversations idle for a day lose their counter; expired entries are
	// purged hourly.
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &TurnCounterRepository{
		cache: c,
	}
}

func (r *TurnCounterRepository) Next(_ context.Context, conversationId string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := 0
	if x, found := r.cache.Get(conversationId); found {
		current = x.(int)
	}
	current++
	r.cache.Set(conversationId, current, cache.DefaultExpiration)
	return current, nil
}
