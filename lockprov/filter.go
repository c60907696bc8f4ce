package lockprov

import (
	"sync/atomic"

	"github.com/embtom/sharedlist/errs"
)

// Filter is a starvation-free N-way mutual exclusion lock requiring no
// atomic compare-and-swap, generalizing the two-context Peterson lock to
// NumCtx participants. It is appropriate for targets with no hardware CAS
// or that cannot afford to disable interrupts system-wide.
//
// interested[ctx] holds the level ctx is currently trying to enter;
// victim[level] holds the most recent arrival at that level. Both are
// touched only through sync/atomic loads and stores on pointers into their
// backing memory so the busy-wait below cannot be hoisted or reordered,
// matching the "declared volatile" requirement of the originating design.
type Filter struct {
	numCtx     int
	interested []*uint32
	victim     []*uint32
}

var _ Provider = (*Filter)(nil)

// NewFilter constructs a Filter lock for numCtx participants, backed by
// its own private arrays, for same-process use. numCtx must be at least
// 2: with numCtx < 2 the entry loop below never executes and the lock
// degenerates to a no-op, so this is rejected at construction time rather
// than left as a latent correctness trap.
func NewFilter(numCtx int) (*Filter, error) {
	if numCtx < 2 {
		return nil, errs.ErrInvalidArg
	}
	f := &Filter{
		numCtx:     numCtx,
		interested: make([]*uint32, numCtx),
		victim:     make([]*uint32, numCtx),
	}
	for i := range f.interested {
		f.interested[i] = new(uint32)
		f.victim[i] = new(uint32)
	}
	return f, nil
}

// NewFilterAt constructs a Filter lock for numCtx participants whose
// interested and victim arrays live in the first FilterWireSize(numCtx)
// bytes of buf (interested first, then victim, each numCtx consecutive
// 32-bit words), so the lock operates directly on shared-region memory.
func NewFilterAt(buf []byte, numCtx int) (*Filter, error) {
	if numCtx < 2 {
		return nil, errs.ErrInvalidArg
	}
	if len(buf) < FilterWireSize(numCtx) {
		return nil, errs.ErrBadRange
	}
	f := &Filter{
		numCtx:     numCtx,
		interested: make([]*uint32, numCtx),
		victim:     make([]*uint32, numCtx),
	}
	for i := 0; i < numCtx; i++ {
		p, err := uint32At(buf, i*4)
		if err != nil {
			return nil, err
		}
		f.interested[i] = p
	}
	victimBase := numCtx * 4
	for i := 0; i < numCtx; i++ {
		p, err := uint32At(buf, victimBase+i*4)
		if err != nil {
			return nil, err
		}
		f.victim[i] = p
	}
	return f, nil
}

// Init zeroes both arrays.
func (f *Filter) Init() error {
	if f == nil {
		return errs.ErrNullArg
	}
	for _, p := range f.interested {
		atomic.StoreUint32(p, 0)
	}
	for _, p := range f.victim {
		atomic.StoreUint32(p, 0)
	}
	return nil
}

// Lock implements the Filter entry protocol: for each level L = 1..N-1,
// announce interest at L, declare self the victim of L, then busy-wait
// while any other context is at least as interested and we are still the
// victim. A context id outside [0, numCtx) fails with ErrBadCtx.
func (f *Filter) Lock(ctx int) error {
	if f == nil {
		return errs.ErrNullArg
	}
	if err := checkCtx(ctx, f.numCtx); err != nil {
		return err
	}
	for level := 1; level < f.numCtx; level++ {
		atomic.StoreUint32(f.interested[ctx], uint32(level))
		atomic.StoreUint32(f.victim[level], uint32(ctx))
		for k := 0; k < f.numCtx; k++ {
			if k == ctx {
				continue
			}
			for atomic.LoadUint32(f.interested[k]) >= uint32(level) &&
				atomic.LoadUint32(f.victim[level]) == uint32(ctx) {
				// Busy-wait. The sequentially-consistent atomic load of
				// victim[level] after the store above stands in for the
				// design's requirement of a strict program-order fence
				// between the two.
			}
		}
	}
	return nil
}

// Unlock clears the calling context's interest, permitting any waiter
// blocked on this context's level to proceed.
func (f *Filter) Unlock(ctx int) error {
	if f == nil {
		return errs.ErrNullArg
	}
	if err := checkCtx(ctx, f.numCtx); err != nil {
		return err
	}
	atomic.StoreUint32(f.interested[ctx], 0)
	return nil
}

// NumCtx returns the configured participant count.
func (f *Filter) NumCtx() int {
	return f.numCtx
}
