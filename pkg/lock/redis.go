// Package lock provides the Redis-backed advisory lock that closes the
// check-then-write window of review submission across service instances.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisLock connects to Redis and verifies the connection before use.
func NewRedisLock(addr, password string, db int, ttl time.Duration) (*RedisLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisLockWithClient(client, ttl), nil
}

// NewRedisLockWithClient creates a lock from an existing client.
func NewRedisLockWithClient(client *redis.Client, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisLock{
		client: client,
		prefix: "submitlock:",
		ttl:    ttl,
	}
}

func (l *RedisLock) key(k string) string {
	return l.prefix + k
}

// Acquire takes the lock for key, returning false when another holder has it.
// The TTL bounds the hold time so a crashed holder cannot wedge submissions.
func (l *RedisLock) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(key), 1, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// Release drops the lock. Releasing a lock that already expired is not an
// error.
func (l *RedisLock) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (l *RedisLock) Close() error {
	return l.client.Close()
}
