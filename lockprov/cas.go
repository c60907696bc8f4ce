package lockprov

import (
	"runtime"
	"sync/atomic"

	"github.com/embtom/sharedlist/errs"
)

// casSpinBound is the number of compare-and-swap attempts tried per yield
// round. A few thousand iterations lets a contended CAS resolve without a
// syscall in the common case, while still bounding how long a context spins
// before surrendering its timeslice to a same-priority contender.
const casSpinBound = 4096

// CAS is a single-word spinlock toggled by atomic compare-and-swap: 0 is
// free, 1 is held. It consults no context id. Acquire uses a successful CAS
// (acquire ordering); release is a plain store (release ordering) so the
// pair forms a full happens-before edge between the releasing and the next
// acquiring context, the same contract go-ilock's packed-state CAS loop
// relies on for its register{IS,IX,S,X} helpers.
//
// word is a pointer rather than an inline field so that NewCASAt can make
// the lock operate directly on a slice of shared-region bytes: every
// mapping of that region then sees the same atomic word.
type CAS struct {
	word *uint32
}

var _ Provider = (*CAS)(nil)
var _ TryLocker = (*CAS)(nil)

// NewCAS returns a freshly initialized CAS spinlock backed by its own
// private word, for same-process use.
func NewCAS() *CAS {
	l := &CAS{word: new(uint32)}
	return l
}

// NewCASAt returns a CAS spinlock whose lock word is the first
// CASWireSize bytes of buf. Any other CAS built over the same underlying
// memory (including one reconstructed in a different process that maps
// the same region) contends on the same word.
func NewCASAt(buf []byte) (*CAS, error) {
	word, err := uint32At(buf, 0)
	if err != nil {
		return nil, err
	}
	return &CAS{word: word}, nil
}

// Init resets the lock word to free. Re-initializing a held lock is
// undefined, per the Provider contract.
func (l *CAS) Init() error {
	if l == nil || l.word == nil {
		return errs.ErrNullArg
	}
	atomic.StoreUint32(l.word, 0)
	return nil
}

// Lock spins attempting the 0->1 transition, yielding to the scheduler
// after casSpinBound failed attempts, then retrying. This prevents livelock
// against a same-priority contender without surrendering control too
// eagerly under light contention.
func (l *CAS) Lock(_ int) error {
	if l == nil || l.word == nil {
		return errs.ErrNullArg
	}
	for {
		for i := 0; i < casSpinBound; i++ {
			if atomic.CompareAndSwapUint32(l.word, 0, 1) {
				return nil
			}
		}
		runtime.Gosched()
	}
}

// TryLock attempts a single acquisition without blocking.
func (l *CAS) TryLock(_ int) (bool, error) {
	if l == nil || l.word == nil {
		return false, errs.ErrNullArg
	}
	return atomic.CompareAndSwapUint32(l.word, 0, 1), nil
}

// Unlock releases the lock. Unlock is only valid for the context currently
// holding it; calling it without a matching prior Lock is undefined, same
// as the Provider contract requires of every backend.
func (l *CAS) Unlock(_ int) error {
	if l == nil || l.word == nil {
		return errs.ErrNullArg
	}
	atomic.StoreUint32(l.word, 0)
	return nil
}
