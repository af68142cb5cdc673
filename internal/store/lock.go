package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"edstudy/internal/pkg"
	"edstudy/packages/database"

	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("store: lock wait timed out")

// Locker 串行化同一集合的读-改-写
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// MemoryLocker 单进程部署使用
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]chan struct{})}
}

func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
	}
}

const (
	LockPrefix     = "lock:"
	LockExpiration = 10 * time.Second
	lockRetryDelay = 20 * time.Millisecond
	lockMaxWait    = 5 * time.Second
)

// 只释放自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker 多实例部署使用，SET NX PX 加持有者令牌
type RedisLocker struct {
	redis *database.RedisClient
}

func NewRedisLocker(client *database.RedisClient) *RedisLocker {
	return &RedisLocker{redis: client}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	owner, err := pkg.GenerateRandomToken()
	if err != nil {
		return nil, err
	}
	lockKey := LockPrefix + key

	ctx, cancel := context.WithTimeout(ctx, lockMaxWait)
	defer cancel()

	for {
		ok, err := l.redis.SetNX(ctx, lockKey, owner, LockExpiration).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("获取锁 %s 失败: %w", key, err)
		}
		if ok {
			return func() {
				// 释放与请求上下文无关，避免请求取消后锁残留
				releaseScript.Run(context.Background(), l.redis, []string{lockKey}, owner)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		case <-time.After(lockRetryDelay):
		}
	}
}
