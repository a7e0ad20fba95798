// Package dedupe stores processed message ids in Redis.
package dedupe

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
)

var _ ports.DeliveryLedger = (*RedisLedger)(nil)

// DefaultTTL bounds how long a processed message id is remembered.
const DefaultTTL = 24 * time.Hour

// RedisLedger claims keys with SETNX so concurrent consumers agree on the first delivery.
type RedisLedger struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisLedger(rdb redis.Cmdable, ttl time.Duration) (*RedisLedger, error) {
	if rdb == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLedger{rdb: rdb, prefix: "billing:delivery:", ttl: ttl}, nil
}

func (l *RedisLedger) FirstDelivery(ctx context.Context, key string) (bool, error) {
	return l.rdb.SetNX(ctx, l.prefix+key, "1", l.ttl).Result()
}

func (l *RedisLedger) Release(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, l.prefix+key).Err()
}
