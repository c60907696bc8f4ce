// Package list implements the circular, head-sentinel, doubly-linked
// intrusive queue described in SPEC_FULL.md §4.3. Every mutating and
// scanning operation acquires the queue's embedded lock for the duration of
// its traversal, so no iteration ever observes a half-updated node from
// another context.
//
// Node storage is never owned by the Queue: callers allocate their own
// Nodes (in this process's heap, or inside a shared region addressed
// through base) and must keep that storage alive for as long as the Node
// stays linked.
package list

import (
	"fmt"
	"sync/atomic"

	"github.com/embtom/sharedlist/errs"
	"github.com/embtom/sharedlist/lockprov"
	"github.com/embtom/sharedlist/wire"
)

// Queue is a head-sentinel circular doubly-linked list plus its embedded
// lock. The Lock field is any Provider implementation — a Queue is coded
// against the Provider interface only, never against a particular backend.
//
// The sentinel (head) and the published-state word (initP) are held by
// pointer rather than by value, so both can be made to live outside the
// Queue value itself — inside a region shared across contexts — while the
// Queue struct (which also holds a Lock interface, meaningless outside the
// process that built it) stays process-local. Init allocates both on the
// Go heap for the common single-process case; InitAt and Attach let a
// caller supply storage of its own.
type Queue struct {
	head  *Node
	Lock  lockprov.Provider
	initP *uint32

	localHead Node
	localInit uint32
}

// Init zeroes the sentinel to a self-referential, empty list, adopts lock
// as the queue's embedded mutual-exclusion provider, and publishes the
// initialization magic. base is the address this call considers "home";
// any later call from a context that maps the same storage at a different
// address must still pass its own consistent base.
func Init(q *Queue, lock lockprov.Provider, base uintptr) error {
	if q == nil || lock == nil {
		return errs.ErrNullArg
	}
	if q.head == nil {
		q.head = &q.localHead
	}
	if q.initP == nil {
		q.initP = &q.localInit
	}
	return publish(q, lock, base)
}

// InitAt is Init for a Queue whose sentinel and published-state word are
// carved from storage the caller owns — typically bytes inside a region
// that other contexts will later Attach to. head and initWord must outlive
// every subsequent operation on q.
func InitAt(q *Queue, head *Node, initWord *uint32, lock lockprov.Provider, base uintptr) error {
	if q == nil || head == nil || initWord == nil || lock == nil {
		return errs.ErrNullArg
	}
	q.head = head
	q.initP = initWord
	return publish(q, lock, base)
}

func publish(q *Queue, lock lockprov.Provider, base uintptr) error {
	if err := lock.Init(); err != nil {
		return fmt.Errorf("list.Init: %w", err)
	}
	self := selfRef(base, q.head)
	q.head.Next = self
	q.head.Prev = self
	q.Lock = lock
	atomic.StoreUint32(q.initP, wire.MagicInit)
	return nil
}

// Attach wires q to a sentinel and published-state word a master has
// already initialized, without touching either. It fails ErrAccessDenied
// if initWord does not yet carry the published magic, the same contract
// slab.Handle.Setup(Slave, ...) enforces for the allocator half of a
// shared region.
func Attach(q *Queue, head *Node, initWord *uint32, lock lockprov.Provider) error {
	if q == nil || head == nil || initWord == nil || lock == nil {
		return errs.ErrNullArg
	}
	if atomic.LoadUint32(initWord) != wire.MagicInit {
		return errs.ErrAccessDenied
	}
	q.head = head
	q.initP = initWord
	q.Lock = lock
	return nil
}

func checkReady(q *Queue) error {
	if q == nil {
		return errs.ErrNullArg
	}
	if q.head == nil || q.initP == nil || q.Lock == nil || atomic.LoadUint32(q.initP) != wire.MagicInit {
		return errs.ErrNotInit
	}
	return nil
}

// Empty reports whether the queue holds no linked nodes.
func Empty(q *Queue, ctx int, base uintptr) (bool, error) {
	if err := checkReady(q); err != nil {
		return false, err
	}
	if err := q.Lock.Lock(ctx); err != nil {
		return false, err
	}
	defer q.Lock.Unlock(ctx)
	return q.head.Next == selfRef(base, q.head), nil
}

// Count performs a full linear traversal and returns the number of linked
// nodes.
func Count(q *Queue, ctx int, base uintptr) (int, error) {
	if err := checkReady(q); err != nil {
		return 0, err
	}
	if err := q.Lock.Lock(ctx); err != nil {
		return 0, err
	}
	defer q.Lock.Unlock(ctx)

	n := 0
	self := q.head
	for cur := nextOf(base, self); cur != self; cur = nextOf(base, cur) {
		n++
	}
	return n, nil
}
