package lockprov

import (
	"sync"

	"github.com/embtom/sharedlist/errs"
)

// HostLock is the external collaborator contract for a host threading
// library's mutex. sync.Mutex satisfies it directly; a caller on another
// platform can supply any type with the same three methods.
type HostLock interface {
	Lock()
	Unlock()
	TryLock() bool
}

// HostMutex is a pass-through adapter to an external mutex whose
// acquisition semantics are inherited verbatim. It consults no context id,
// matching the uniform contract: only Filter bound-checks its ctx
// argument.
type HostMutex struct {
	m HostLock
}

var _ Provider = (*HostMutex)(nil)
var _ TryLocker = (*HostMutex)(nil)

// NewHostMutex wraps the given host lock. A nil argument defaults to a
// fresh sync.Mutex.
func NewHostMutex(m HostLock) *HostMutex {
	if m == nil {
		m = &sync.Mutex{}
	}
	return &HostMutex{m: m}
}

// Init is a no-op: a freshly constructed host mutex is already usable, and
// re-initializing a held one is undefined regardless.
func (h *HostMutex) Init() error {
	if h == nil || h.m == nil {
		return errs.ErrNullArg
	}
	return nil
}

func (h *HostMutex) Lock(_ int) error {
	if h == nil || h.m == nil {
		return errs.ErrNullArg
	}
	h.m.Lock()
	return nil
}

func (h *HostMutex) Unlock(_ int) error {
	if h == nil || h.m == nil {
		return errs.ErrNullArg
	}
	h.m.Unlock()
	return nil
}

func (h *HostMutex) TryLock(_ int) (bool, error) {
	if h == nil || h.m == nil {
		return false, errs.ErrNullArg
	}
	return h.m.TryLock(), nil
}
