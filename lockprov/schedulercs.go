package lockprov

import "github.com/embtom/sharedlist/errs"

// CSBackend is the external collaborator contract for an embedded
// scheduler's critical-section primitive: Disable suspends preemption (and
// optionally interrupts) and returns the prior interrupt-mask/state word;
// Restore reinstates that saved state. It is consumed through this
// interface only — the actual disable/enable intrinsic is platform code
// outside this module's scope.
type CSBackend interface {
	Disable() uint32
	Restore(state uint32)
}

// SchedulerCS adapts a scheduler's critical-section primitive to the
// Provider shape. Its lock word holds saved interrupt state, not an
// ownership flag, and it is not a queue: nesting requires the caller's own
// discipline, exactly as the embedded-scheduler design intends. It is
// appropriate only when a single context can hold the lock at a time and
// no true parallel holder is possible.
type SchedulerCS struct {
	backend CSBackend
	saved   uint32
	held    bool
}

var _ Provider = (*SchedulerCS)(nil)

// NewSchedulerCS adapts backend to the Provider shape.
func NewSchedulerCS(backend CSBackend) (*SchedulerCS, error) {
	if backend == nil {
		return nil, errs.ErrNullArg
	}
	return &SchedulerCS{backend: backend}, nil
}

// Init clears the held flag. The saved word is not reset: Lock overwrites
// it before Unlock ever reads it.
func (s *SchedulerCS) Init() error {
	if s == nil || s.backend == nil {
		return errs.ErrNullArg
	}
	s.held = false
	return nil
}

// Lock disables preemption and records the interrupt-mask/state word the
// backend reports so Unlock can restore it. Unlike CAS or Filter,
// SchedulerCS has no queue a second locker could wait on — a nested Lock
// from the same context would overwrite saved with the already-disabled
// state and later restore the wrong mask — so a Lock while already held
// fails ErrBusy instead of corrupting saved.
func (s *SchedulerCS) Lock(_ int) error {
	if s == nil || s.backend == nil {
		return errs.ErrNullArg
	}
	if s.held {
		return errs.ErrBusy
	}
	s.saved = s.backend.Disable()
	s.held = true
	return nil
}

// Unlock restores the state word captured by the most recent Lock. An
// Unlock with no matching held Lock fails ErrBusy rather than restoring a
// stale or zero saved word.
func (s *SchedulerCS) Unlock(_ int) error {
	if s == nil || s.backend == nil {
		return errs.ErrNullArg
	}
	if !s.held {
		return errs.ErrBusy
	}
	s.backend.Restore(s.saved)
	s.held = false
	return nil
}
