package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestLock(t *testing.T) (*RedisLock, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	l := NewRedisLockWithClient(client, 2*time.Second)
	t.Cleanup(func() { l.Close() })
	return l, s
}

func TestAcquireRelease(t *testing.T) {
	l, _ := setupTestLock(t)
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "u1:m1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !ok {
		t.Fatal("expected first Acquire to succeed")
	}

	// Same key is contended, a different key is not.
	ok, err = l.Acquire(ctx, "u1:m1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if ok {
		t.Fatal("expected second Acquire on held key to fail")
	}

	ok, err = l.Acquire(ctx, "u2:m1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !ok {
		t.Fatal("expected Acquire on different key to succeed")
	}

	if err := l.Release(ctx, "u1:m1"); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	ok, err = l.Acquire(ctx, "u1:m1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !ok {
		t.Fatal("expected Acquire after Release to succeed")
	}
}

func TestLockExpires(t *testing.T) {
	l, s := setupTestLock(t)
	ctx := context.Background()

	if ok, _ := l.Acquire(ctx, "u1:m1"); !ok {
		t.Fatal("expected Acquire to succeed")
	}

	s.FastForward(3 * time.Second)

	ok, err := l.Acquire(ctx, "u1:m1")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !ok {
		t.Fatal("expected Acquire to succeed after TTL expiry")
	}
}

func TestReleaseExpiredLock(t *testing.T) {
	l, s := setupTestLock(t)
	ctx := context.Background()

	if ok, _ := l.Acquire(ctx, "u1:m1"); !ok {
		t.Fatal("expected Acquire to succeed")
	}
	s.FastForward(3 * time.Second)

	if err := l.Release(ctx, "u1:m1"); err != nil {
		t.Fatalf("Release of expired lock should not error: %v", err)
	}
}
