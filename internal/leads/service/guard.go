package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RescoreGuard claims a lead for rescoring. Acquire returns false while an
// earlier claim on the same lead is still inside its window.
type RescoreGuard interface {
	Acquire(ctx context.Context, leadID uuid.UUID) (bool, error)
	Release(ctx context.Context, leadID uuid.UUID) error
}

const rescoreKeyPrefix = "naybourhood:rescore:"

// RedisGuard implements RescoreGuard with SET NX and a TTL.
type RedisGuard struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisGuard(client redis.Cmdable, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, leadID uuid.UUID) (bool, error) {
	return g.client.SetNX(ctx, rescoreKeyPrefix+leadID.String(), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
}

func (g *RedisGuard) Release(ctx context.Context, leadID uuid.UUID) error {
	return g.client.Del(ctx, rescoreKeyPrefix+leadID.String()).Err()
}

type noopGuard struct{}

func (noopGuard) Acquire(context.Context, uuid.UUID) (bool, error) { return true, nil }
func (noopGuard) Release(context.Context, uuid.UUID) error         { return nil }
