package cron

import (
	"context"
	"time"
)

type lockClient interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(name string) string
}

// Lock is a redis-backed mutex so only one worker replica runs a given
// job per tick. Expiry covers the crash case; Release covers the normal
// one.
type Lock struct {
	client lockClient
	name   string
	ttl    time.Duration
}

func NewLock(client lockClient, name string, ttl time.Duration) *Lock {
	return &Lock{client: client, name: name, ttl: ttl}
}

// Acquire reports whether this replica won the tick.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	return l.client.SetNX(ctx, l.client.LockKey(l.name), time.Now().UTC().Format(time.RFC3339), l.ttl)
}

func (l *Lock) Release(ctx context.Context) error {
	return l.client.Del(ctx, l.client.LockKey(l.name))
}
