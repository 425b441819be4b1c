package redis

import (
	"context"
	"fmt"
	"time"

	"ai-docchat-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const (
	turnCounterKeyPrefix = "turn_index:"
	turnCounterTTL       = 24 * time.Hour
)

// TurnCounterRepository assigns turn indexes through Redis INCR, which stays
// monotonic across instances sharing the same Redis.
type TurnCounterRepository struct {
	rdb *redis.Client
}

func NewTurnCounterRepository(rdb *redis.Client) contract.TurnCounterRepository {
	return &TurnCounterRepository{
		rdb: rdb,
	}
}

func (r *TurnCounterRepository) Next(ctx context.Context, conversationId string) (int, error) {
	key := turnCounterKeyPrefix + conversationId

	n, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment turn counter: %w", err)
	}
	// Refresh the idle TTL on every turn; errors here only shorten bookkeeping.
	r.rdb.Expire(ctx, key, turnCounterTTL)

	return int(n), nil
}
