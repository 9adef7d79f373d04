package driven

import "context"

// IdentityLocker serialises work on a single media identity across
// concurrent reconciliation runs.
type IdentityLocker interface {
	// Lock blocks until the identity is held or ctx is done.
	// The returned function releases the lock.
	Lock(ctx context.Context, identity string) (unlock func(), err error)
}
