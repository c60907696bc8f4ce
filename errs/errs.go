// Package errs defines the sentinel error kinds shared by lockprov, list,
// slab and shmregion. The kinds are deliberately opaque: callers match
// on the sentinel with errors.Is, never on an integer code.
package errs

import "errors"

var (
	// ErrNullArg is returned when a required handle, queue, or pointer
	// argument is nil.
	ErrNullArg = errors.New("sharedlist: null argument")

	// ErrNotInit is returned when an operation other than init is called
	// before the structure's initialization magic has been published.
	ErrNotInit = errors.New("sharedlist: not initialized")

	// ErrBadCtx is returned when a context id is outside the configured
	// range of participants.
	ErrBadCtx = errors.New("sharedlist: bad context id")

	// ErrBusy is returned by SchedulerCS for a Lock while already held or
	// an Unlock with no held Lock. A TryLock that cannot acquire the lock
	// reports that as a false result with a nil error, not as ErrBusy.
	ErrBusy = errors.New("sharedlist: busy")

	// ErrEmpty is returned by an operation that requires at least one
	// linked node when the queue holds none.
	ErrEmpty = errors.New("sharedlist: empty")

	// ErrNoSpace is returned by Alloc when no contiguous run of the
	// requested length is free.
	ErrNoSpace = errors.New("sharedlist: no space")

	// ErrBadRange is returned when a pointer or position falls outside
	// the bounds of its owning structure.
	ErrBadRange = errors.New("sharedlist: bad range")

	// ErrAccessDenied is returned when a slave attach observes published
	// parameters that do not match its own, or attaches before
	// publication.
	ErrAccessDenied = errors.New("sharedlist: access denied")

	// ErrListOverflow is the non-fatal signal that an iterator has
	// wrapped past the sentinel back to the first real node.
	ErrListOverflow = errors.New("sharedlist: list overflow")

	// ErrInvalidArg is returned when an argument is structurally wrong,
	// e.g. a free() pointer whose ownership tag fails the double-witness
	// check.
	ErrInvalidArg = errors.New("sharedlist: invalid argument")

	// ErrInternalFault is returned when an internal consistency check
	// (e.g. a stored size against a recomputed layout) fails.
	ErrInternalFault = errors.New("sharedlist: internal fault")
)
