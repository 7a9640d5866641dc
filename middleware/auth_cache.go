package middleware

import (
	"context"

	"wayfarer/utils"

	"github.com/go-redis/redis/v8"
)

// CachedIdentity is what the auth middleware remembers about a user between requests.
type CachedIdentity struct {
	Role  string
	Email string
}

// AuthCache stores resolved identities keyed by user ID.
type AuthCache interface {
	Get(ctx context.Context, userID string) (CachedIdentity, bool, error)
	Set(ctx context.Context, userID string, identity CachedIdentity) error
}

// RedisAuthCache keeps each identity in a hash so role and email expire together.
type RedisAuthCache struct {
	client *redis.Client
}

func NewRedisAuthCache(client *redis.Client) *RedisAuthCache {
	return &RedisAuthCache{client: client}
}

func (r *RedisAuthCache) Get(ctx context.Context, userID string) (CachedIdentity, bool, error) {
	fields, err := r.client.HGetAll(ctx, utils.AuthCachePrefix+userID).Result()
	if err != nil {
		return CachedIdentity{}, false, err
	}
	if fields["role"] == "" {
		return CachedIdentity{}, false, nil
	}
	return CachedIdentity{Role: fields["role"], Email: fields["email"]}, true, nil
}

func (r *RedisAuthCache) Set(ctx context.Context, userID string, identity CachedIdentity) error {
	key := utils.AuthCachePrefix + userID
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "role", identity.Role, "email", identity.Email)
		pipe.Expire(ctx, key, utils.AuthCacheTTL)
		return nil
	})
	return err
}
