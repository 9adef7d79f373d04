// Package memory provides an in-process identity locker.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/pagemedia/internal/core/domain"
	"github.com/custodia-labs/pagemedia/internal/core/ports/driven"
)

// Ensure Locker implements the interface.
var _ driven.IdentityLocker = (*Locker)(nil)

// Locker serialises work per identity within one process.
type Locker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

// NewLocker creates an in-process locker.
func NewLocker() *Locker {
	return &Locker{held: make(map[string]chan struct{})}
}

// Lock blocks until the identity is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, identity string) (func(), error) {
	for {
		l.mu.Lock()
		released, busy := l.held[identity]
		if !busy {
			done := make(chan struct{})
			l.held[identity] = done
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, identity)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %s: %w: %w", identity, domain.ErrLockUnavailable, ctx.Err())
		case <-released:
		}
	}
}

// Held reports whether an identity is currently locked.
func (l *Locker) Held(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[identity]
	return ok
}
