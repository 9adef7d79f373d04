// Package redis provides an identity locker backed by Redis, so that
// reconciliation runs on different hosts never rebuild the same media
// document at once.
package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
	"github.com/custodia-labs/pagemedia/internal/logger"
)

// Ensure Locker implements the interface.
var _ driven.IdentityLocker = (*Locker)(nil)

const (
	keyPrefix     = "pagemedia:lock:"
	retryInterval = 50 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// renewScript extends the TTL only while the key still holds our token.
const renewScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`

// client is the subset of the go-redis client used by the locker.
type client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *goredis.Cmd
}

// Locker acquires per-identity locks with SET NX PX and releases them
// with a token-checked script. The TTL is renewed every third of its
// length while held, so a lock expires only after its holder dies.
type Locker struct {
	client client
	closer func() error
	ttl    time.Duration
}

// NewLocker connects to Redis at addr.
func NewLocker(addr string, ttl time.Duration) (*Locker, error) {
	if addr == "" {
		return nil, fmt.Errorf("%w: missing redis address", domain.ErrInvalidInput)
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w: %w", domain.ErrLockUnavailable, err)
	}

	l := newLocker(rdb, ttl)
	l.closer = rdb.Close
	return l, nil
}

func newLocker(c client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Locker{client: c, ttl: ttl}
}

// Lock blocks until the identity is held or ctx is done.
func (l *Locker) Lock(ctx context.Context, identity string) (func(), error) {
	key := keyPrefix + identity
	token := uuid.NewString()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w: %w", identity, domain.ErrLockUnavailable, err)
		}
		if ok {
			return l.hold(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %s: %w: %w", identity, domain.ErrLockUnavailable, ctx.Err())
		case <-ticker.C:
		}
	}
}

// hold starts renewing the key and returns the unlock func.
func (l *Locker) hold(key, token string) func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	go l.renew(key, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			l.release(key, token)
		})
	}
}

func (l *Locker) renew(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), l.ttl/3)
		held, err := l.client.Eval(ctx, renewScript, []string{key}, token, l.ttl.Milliseconds()).Int64()
		cancel()
		if err != nil {
			logger.Warn("failed to renew lock", "key", key, "error", err)
			continue
		}
		if held == 0 {
			logger.Warn("lock lost before release", "key", key)
			return
		}
	}
}

func (l *Locker) release(key, token string) {
	// Release even when the caller's context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
		logger.Warn("failed to release lock", "key", key, "error", err)
	}
}

// Close closes the Redis connection.
func (l *Locker) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer()
}
