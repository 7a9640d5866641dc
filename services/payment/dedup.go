package payment

import (
	"context"
	"time"

	"wayfarer/utils"

	"github.com/go-redis/redis/v8"
)

// RedisDeduper keeps processed event ids as expiring keys.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redis.Client) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: utils.PaymentEventTTL}
}

func (d *RedisDeduper) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	return d.client.SetNX(ctx, utils.PaymentEventPrefix+eventID, time.Now().Unix(), d.ttl).Result()
}

func (d *RedisDeduper) Forget(ctx context.Context, eventID string) error {
	return d.client.Del(ctx, utils.PaymentEventPrefix+eventID).Err()
}
