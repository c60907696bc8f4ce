// Package shmregion ties list.Queue and slab.Handle to a single contiguous
// block of memory that two or more cooperating contexts can map and share,
// the "SharedRegion" lifecycle SPEC_FULL.md §4.5 describes: sized once by
// CalcSize-equivalent math, attached by exactly one master that publishes
// its layout, and attached by any number of slaves that verify it instead
// of re-initializing it.
//
// NewLocal backs a Region with an ordinary Go slice, which is all that is
// needed when "context" means goroutine rather than process. NewShared
// (unix only) backs it with a real POSIX shared-memory object so unrelated
// processes can map the same bytes — the deployment the original C library
// was written for.
package shmregion

import (
	"unsafe"

	"github.com/embtom/sharedlist/errs"
)

// Region is a named block of memory plus the base address this context
// should use when translating the RelPtrs stored inside it.
type Region struct {
	Mem   []byte
	Base  uintptr
	close func() error
}

// NewLocal allocates a heap-backed Region of size bytes. It never fails
// except on a zero size, and Close is a no-op: the Go garbage collector
// reclaims the backing slice once every Queue and Handle attached to it is
// gone.
func NewLocal(size uint32) (*Region, error) {
	if size == 0 {
		return nil, errs.ErrInvalidArg
	}
	mem := make([]byte, size)
	return &Region{Mem: mem, Base: uintptr(unsafe.Pointer(&mem[0]))}, nil
}

// Close releases any OS resources a Region holds. Regions built by
// NewLocal have none; Regions built by NewShared unmap the memory and
// close the backing file descriptor.
func (r *Region) Close() error {
	if r == nil || r.close == nil {
		return nil
	}
	return r.close()
}
