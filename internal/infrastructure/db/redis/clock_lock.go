package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MauricioAlexanderP/Sistema-de-entrdas-y-salidas/internal/core/domain"
)

const defaultLockTTL = 10 * time.Second

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock taken over by another request is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ClockLocker serialises clock actions per user across API instances.
// Key format: clock:lock:<user_id>
type ClockLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClockLocker wraps client. A non-positive ttl falls back to 10s.
func NewClockLocker(client *redis.Client, ttl time.Duration) *ClockLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &ClockLocker{client: client, ttl: ttl}
}

// Acquire takes the user's lock or returns domain.ErrClockBusy.
func (l *ClockLocker) Acquire(ctx context.Context, userID int64) (func(context.Context) error, error) {
	key := l.key(userID)
	token := uuid.NewString()

	err := l.client.SetArgs(ctx, key, token, redis.SetArgs{Mode: "NX", TTL: l.ttl}).Err()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrClockBusy
	}
	if err != nil {
		return nil, fmt.Errorf("clock lock: %w", err)
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("clock unlock: %w", err)
		}
		return nil
	}
	return release, nil
}

func (l *ClockLocker) key(userID int64) string {
	return "clock:lock:" + strconv.FormatInt(userID, 10)
}
