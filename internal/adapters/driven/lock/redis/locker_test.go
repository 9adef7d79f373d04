package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
)

// fakeClient emulates SET NX and the release and renew scripts over a map.
type fakeClient struct {
	mu       sync.Mutex
	keys     map[string]string
	setErr   error
	evals    int
	renewals int
}

func newFakeClient() *fakeClient {
	return &fakeClient{keys: make(map[string]string)}
}

func (f *fakeClient) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *goredis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return goredis.NewBoolResult(false, f.setErr)
	}
	if _, held := f.keys[key]; held {
		return goredis.NewBoolResult(false, nil)
	}
	f.keys[key] = value.(string)
	return goredis.NewBoolResult(true, nil)
}

func (f *fakeClient) Eval(_ context.Context, script string, keys []string, args ...interface{}) *goredis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if script == renewScript {
		f.renewals++
		if f.keys[keys[0]] == args[0].(string) {
			return goredis.NewCmdResult(int64(1), nil)
		}
		return goredis.NewCmdResult(int64(0), nil)
	}
	f.evals++
	if f.keys[keys[0]] == args[0].(string) {
		delete(f.keys, keys[0])
		return goredis.NewCmdResult(int64(1), nil)
	}
	return goredis.NewCmdResult(int64(0), nil)
}

func (f *fakeClient) renewCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.renewals
}

func (f *fakeClient) held(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.keys[key]
	return ok
}

func TestLocker_LockAndRelease(t *testing.T) {
	fc := newFakeClient()
	l := newLocker(fc, time.Second)

	unlock, err := l.Lock(context.Background(), "media_F_2")
	require.NoError(t, err)
	assert.True(t, fc.held("pagemedia:lock:media_F_2"))

	unlock()
	assert.False(t, fc.held("pagemedia:lock:media_F_2"))
	assert.Equal(t, 1, fc.evals)
}

func TestLocker_WaitsForHolder(t *testing.T) {
	fc := newFakeClient()
	l := newLocker(fc, time.Second)

	unlock, err := l.Lock(context.Background(), "media_F_2")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := l.Lock(context.Background(), "media_F_2")
		if err == nil {
			close(acquired)
			second()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while held")
	case <-time.After(3 * retryInterval):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestLocker_ContextCancelled(t *testing.T) {
	fc := newFakeClient()
	l := newLocker(fc, time.Second)

	unlock, err := l.Lock(context.Background(), "media_F_2")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*retryInterval)
	defer cancel()

	_, err = l.Lock(ctx, "media_F_2")
	assert.ErrorIs(t, err, domain.ErrLockUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_ClientError(t *testing.T) {
	fc := newFakeClient()
	fc.setErr = errors.New("connection refused")
	l := newLocker(fc, time.Second)

	_, err := l.Lock(context.Background(), "media_F_2")
	assert.ErrorIs(t, err, domain.ErrLockUnavailable)
}

func TestLocker_StaleTokenDoesNotRelease(t *testing.T) {
	fc := newFakeClient()
	l := newLocker(fc, time.Second)

	unlock, err := l.Lock(context.Background(), "media_F_2")
	require.NoError(t, err)

	// Simulate expiry and takeover by another holder.
	fc.mu.Lock()
	fc.keys["pagemedia:lock:media_F_2"] = "other-token"
	fc.mu.Unlock()

	unlock()
	assert.True(t, fc.held("pagemedia:lock:media_F_2"))
}

func TestLocker_RenewsWhileHeld(t *testing.T) {
	fc := newFakeClient()
	l := newLocker(fc, 30*time.Millisecond)

	unlock, err := l.Lock(context.Background(), "media_F_2")
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return fc.renewCount() >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, fc.held("pagemedia:lock:media_F_2"))

	unlock()
	unlock()
	after := fc.renewCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, fc.renewCount())
	assert.False(t, fc.held("pagemedia:lock:media_F_2"))
	assert.Equal(t, 1, fc.evals)
}

func TestLocker_StopsRenewingLostLock(t *testing.T) {
	fc := newFakeClient()
	l := newLocker(fc, 30*time.Millisecond)

	unlock, err := l.Lock(context.Background(), "media_F_2")
	require.NoError(t, err)

	fc.mu.Lock()
	fc.keys["pagemedia:lock:media_F_2"] = "other-token"
	fc.mu.Unlock()

	assert.Eventually(t, func() bool { return fc.renewCount() >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, fc.renewCount())

	unlock()
	assert.True(t, fc.held("pagemedia:lock:media_F_2"))
}

func TestNewLocker_RequiresAddress(t *testing.T) {
	_, err := NewLocker("", time.Second)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewLocker_DefaultTTL(t *testing.T) {
	l := newLocker(newFakeClient(), 0)
	assert.Equal(t, 30*time.Second, l.ttl)
	assert.NoError(t, l.Close())
}
