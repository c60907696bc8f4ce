package shmregion

import (
	"unsafe"

	"github.com/embtom/sharedlist/errs"
	"github.com/embtom/sharedlist/list"
	"github.com/embtom/sharedlist/lockprov"
	"github.com/embtom/sharedlist/wire"
)

// LockFactory builds a lockprov.Provider whose state lives entirely inside
// buf, the same contract slab.LockFactory uses — it is what lets a Queue's
// embedded lock, and not just its sentinel, be shared-region bytes.
type LockFactory func(buf []byte) (lockprov.Provider, error)

// queueLayout computes the byte offsets a shared Queue region uses: the
// sentinel Node first, then the published-state word, then the embedded
// lock's own bytes. Each field starts on a machine-word boundary so the
// atomic operations list and lockprov perform on it are valid regardless
// of the platform.
func queueLayout(lockSize int) (headOff, initOff, lockOff, total uint32) {
	headSize := uint32(unsafe.Sizeof(list.Node{}))
	headOff = 0
	initOff = wire.AlignUp(headOff+headSize, wire.Word)
	lockOff = wire.AlignUp(initOff+4, wire.Word)
	total = lockOff + uint32(lockSize)
	return
}

// QueueRegionSize returns the number of bytes a shared Queue needs for a
// lock backend whose LockState occupies lockSize bytes (lockprov.CASWireSize
// or lockprov.FilterWireSize(numCtx)).
func QueueRegionSize(lockSize int) uint32 {
	_, _, _, total := queueLayout(lockSize)
	return total
}

// AttachQueueMaster zeroes region's bytes, carves the sentinel, the
// published-state word, and the lock out of them, and publishes the queue
// as ready — the master half of SPEC_FULL.md §4.5's SharedRegion
// lifecycle, specialized to a Queue.
func AttachQueueMaster(region *Region, lockSize int, newLock LockFactory) (*list.Queue, error) {
	if region == nil || newLock == nil {
		return nil, errs.ErrNullArg
	}
	headOff, initOff, lockOff, total := queueLayout(lockSize)
	if uint32(len(region.Mem)) != total {
		return nil, errs.ErrInvalidArg
	}
	for i := range region.Mem {
		region.Mem[i] = 0
	}

	head := (*list.Node)(unsafe.Pointer(&region.Mem[headOff]))
	initP, err := lockprov.Uint32At(region.Mem, int(initOff))
	if err != nil {
		return nil, err
	}
	lock, err := newLock(region.Mem[lockOff:])
	if err != nil {
		return nil, err
	}

	q := &list.Queue{}
	if err := list.InitAt(q, head, initP, lock, region.Base); err != nil {
		return nil, err
	}
	return q, nil
}

// AttachQueueSlave wires a Queue to an already-published region. It fails
// ErrAccessDenied if the region's published-state word does not yet carry
// the master's magic, the same failure slab.Handle.Setup(Slave, ...)
// reports for a not-yet-published allocator header.
func AttachQueueSlave(region *Region, lockSize int, newLock LockFactory) (*list.Queue, error) {
	if region == nil || newLock == nil {
		return nil, errs.ErrNullArg
	}
	headOff, initOff, lockOff, total := queueLayout(lockSize)
	if uint32(len(region.Mem)) != total {
		return nil, errs.ErrInvalidArg
	}

	head := (*list.Node)(unsafe.Pointer(&region.Mem[headOff]))
	initP, err := lockprov.Uint32At(region.Mem, int(initOff))
	if err != nil {
		return nil, err
	}
	lock, err := newLock(region.Mem[lockOff:])
	if err != nil {
		return nil, err
	}

	q := &list.Queue{}
	if err := list.Attach(q, head, initP, lock); err != nil {
		return nil, err
	}
	return q, nil
}
