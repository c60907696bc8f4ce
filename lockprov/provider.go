// Package lockprov defines the pluggable mutual-exclusion capability shared
// by the intrusive list and the slab allocator, and its four concrete
// backends: a CAS spinlock, a software-only Filter (generalized Peterson)
// lock, a host-mutex adapter, and a scheduler critical-section adapter.
//
// Every backend satisfies the same Provider shape, so list and slab code is
// written once against the interface and never against a particular
// backend's internals.
package lockprov

import "github.com/embtom/sharedlist/errs"

// Provider is the capability contract common to all four lock backends.
//
// Init must be called before any other operation; re-initializing a held
// lock is undefined. Lock blocks until mutual exclusion is granted and
// never returns partial success. Unlock is only valid for the context
// currently holding the lock and must pair with a prior Lock.
type Provider interface {
	Init() error
	Lock(ctx int) error
	Unlock(ctx int) error
}

// TryLocker is implemented by backends that can attempt acquisition without
// blocking. Not every Provider supports this; callers should type-assert.
type TryLocker interface {
	TryLock(ctx int) (bool, error)
}

// checkCtx validates a context id against the configured participant count.
// Backends that do not consult the context id (CAS, HostMutex,
// SchedulerCS) accept any value, per the uniform contract fixed in
// SPEC_FULL.md's Open Question resolution.
func checkCtx(ctx, numCtx int) error {
	if numCtx > 0 && (ctx < 0 || ctx >= numCtx) {
		return errs.ErrBadCtx
	}
	return nil
}
