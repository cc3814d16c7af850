package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Locker hands out short-lived named locks. A lock expires on its own after
// ttl, so a crashed holder never blocks a key forever.
type Locker interface {
	// Acquire returns a release token and true when the lock was taken,
	// or false when someone else holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

func BookingLockKey(barberID uint, date, start string) string {
	return fmt.Sprintf("booking:lock:%d:%s:%s", barberID, date, start)
}

// ======================================================
// Redis
// ======================================================

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *RedisLocker) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}

// ======================================================
// In process
// ======================================================

type memoryLock struct {
	token   string
	expires time.Time
}

type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]memoryLock
	now   func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		locks: make(map[string]memoryLock),
		now:   time.Now,
	}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if held, ok := l.locks[key]; ok && now.Before(held.expires) {
		return "", false, nil
	}

	token := uuid.NewString()
	l.locks[key] = memoryLock{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (l *MemoryLocker) Release(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if held, ok := l.locks[key]; ok && held.token == token {
		delete(l.locks, key)
	}
	return nil
}
