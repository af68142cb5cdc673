package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edstudy/packages/database"

	"github.com/redis/go-redis/v9"
)

// RedisBackend 临时存储（会话等），ttl 为 0 时不过期
type RedisBackend struct {
	redis *database.RedisClient
	ttl   time.Duration
}

func NewRedisBackend(client *database.RedisClient, ttl time.Duration) *RedisBackend {
	return &RedisBackend{redis: client, ttl: ttl}
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", key, err)
	}
	return b, nil
}

func (r *RedisBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := r.redis.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := r.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("删除 %s 失败: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.redis.Ping(ctx).Err()
}
