package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"wayfare/internal/app/locks"
)

// RedisLockManager serializes keyed operations across service instances
// using SET NX with a TTL. Release is token-checked so an expired lock
// re-acquired by someone else is never deleted by the first holder.
type RedisLockManager struct {
	client        *redis.Client
	retryInterval time.Duration
}

func NewRedisLockManager(addr, password string, db int) *RedisLockManager {
	return &RedisLockManager{
		client:        redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		retryInterval: 50 * time.Millisecond,
	}
}

func (m *RedisLockManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *RedisLockManager) Close() error {
	return m.client.Close()
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

func (m *RedisLockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (locks.Release, error) {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	token := uuid.NewString()
	for {
		ok, err := m.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			release := func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, m.client, []string{key}, token).Err()
			}
			return release, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.retryInterval):
		}
	}
}

var _ locks.Manager = (*RedisLockManager)(nil)
