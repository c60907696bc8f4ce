package list

import "github.com/embtom/sharedlist/errs"

// linkBetween splices n between left and right, which must already be
// adjacent (left.Next == right, right.Prev == left).
func linkBetween(base uintptr, left, right, n *Node) {
	setNext(base, left, n)
	setPrev(base, n, left)
	setNext(base, n, right)
	setPrev(base, right, n)
}

// unlink detaches n from its neighbors and marks it self-referential,
// i.e. unlinked.
func unlink(base uintptr, n *Node) {
	left := prevOf(base, n)
	right := nextOf(base, n)
	setNext(base, left, right)
	setPrev(base, right, left)
	self := selfRef(base, n)
	n.Next = self
	n.Prev = self
}

func isEmptyLocked(base uintptr, q *Queue) bool {
	return q.head.Next == selfRef(base, q.head)
}

// Enqueue inserts n at the tail of the queue (adjacent to the sentinel on
// the Prev side), matching the FIFO law: nodes enqueued n1..nk in order are
// dequeued in the same order.
func Enqueue(q *Queue, n *Node, ctx int, base uintptr) error {
	if n == nil {
		return errs.ErrNullArg
	}
	if err := checkReady(q); err != nil {
		return err
	}
	if err := q.Lock.Lock(ctx); err != nil {
		return err
	}
	defer q.Lock.Unlock(ctx)

	linkBetween(base, prevOf(base, q.head), q.head, n)
	return nil
}

// Dequeue removes and returns the node at the head of the queue (adjacent
// to the sentinel on the Next side).
func Dequeue(q *Queue, ctx int, base uintptr) (*Node, error) {
	if err := checkReady(q); err != nil {
		return nil, err
	}
	if err := q.Lock.Lock(ctx); err != nil {
		return nil, err
	}
	defer q.Lock.Unlock(ctx)

	if isEmptyLocked(base, q) {
		return nil, errs.ErrEmpty
	}
	n := nextOf(base, q.head)
	unlink(base, n)
	return n, nil
}

// AddAfter splices n immediately after pos.
func AddAfter(q *Queue, pos, n *Node, ctx int, base uintptr) error {
	if pos == nil || n == nil {
		return errs.ErrNullArg
	}
	if err := checkReady(q); err != nil {
		return err
	}
	if err := q.Lock.Lock(ctx); err != nil {
		return err
	}
	defer q.Lock.Unlock(ctx)

	linkBetween(base, pos, nextOf(base, pos), n)
	return nil
}

// AddBefore splices n immediately before pos.
func AddBefore(q *Queue, pos, n *Node, ctx int, base uintptr) error {
	if pos == nil || n == nil {
		return errs.ErrNullArg
	}
	if err := checkReady(q); err != nil {
		return err
	}
	if err := q.Lock.Lock(ctx); err != nil {
		return err
	}
	defer q.Lock.Unlock(ctx)

	linkBetween(base, prevOf(base, pos), pos, n)
	return nil
}

// Delete detaches a linked node n from the queue.
func Delete(q *Queue, n *Node, ctx int, base uintptr) error {
	if n == nil {
		return errs.ErrNullArg
	}
	if err := checkReady(q); err != nil {
		return err
	}
	if err := q.Lock.Lock(ctx); err != nil {
		return err
	}
	defer q.Lock.Unlock(ctx)

	if isEmptyLocked(base, q) {
		return errs.ErrEmpty
	}
	unlink(base, n)
	return nil
}

// Contains performs a linear scan and reports whether n is currently
// linked into q.
func Contains(q *Queue, n *Node, ctx int, base uintptr) (bool, error) {
	if n == nil {
		return false, errs.ErrNullArg
	}
	if err := checkReady(q); err != nil {
		return false, err
	}
	if err := q.Lock.Lock(ctx); err != nil {
		return false, err
	}
	defer q.Lock.Unlock(ctx)

	if isEmptyLocked(base, q) {
		return false, errs.ErrEmpty
	}
	self := q.head
	for cur := nextOf(base, self); cur != self; cur = nextOf(base, cur) {
		if cur == n {
			return true, nil
		}
	}
	return false, nil
}

// GetBegin returns the first linked node (the head end of the queue).
func GetBegin(q *Queue, ctx int, base uintptr) (*Node, error) {
	if err := checkReady(q); err != nil {
		return nil, err
	}
	if err := q.Lock.Lock(ctx); err != nil {
		return nil, err
	}
	defer q.Lock.Unlock(ctx)

	if isEmptyLocked(base, q) {
		return nil, errs.ErrEmpty
	}
	return nextOf(base, q.head), nil
}

// GetEnd returns the last linked node (the tail end of the queue).
func GetEnd(q *Queue, ctx int, base uintptr) (*Node, error) {
	if err := checkReady(q); err != nil {
		return nil, err
	}
	if err := q.Lock.Lock(ctx); err != nil {
		return nil, err
	}
	defer q.Lock.Unlock(ctx)

	if isEmptyLocked(base, q) {
		return nil, errs.ErrEmpty
	}
	return prevOf(base, q.head), nil
}

// GetNext advances an iterator by one position. When it is the last real
// node, GetNext returns the first real node (wrapping past the sentinel)
// together with the non-fatal ErrListOverflow, so a caller that keeps
// calling GetNext always sees forward progress instead of getting stuck at
// the sentinel.
func GetNext(q *Queue, it *Node, ctx int, base uintptr) (*Node, error) {
	if it == nil {
		return nil, errs.ErrNullArg
	}
	if err := checkReady(q); err != nil {
		return nil, err
	}
	if err := q.Lock.Lock(ctx); err != nil {
		return nil, err
	}
	defer q.Lock.Unlock(ctx)

	if isEmptyLocked(base, q) {
		return nil, errs.ErrEmpty
	}
	next := nextOf(base, it)
	if next == q.head {
		return nextOf(base, q.head), errs.ErrListOverflow
	}
	return next, nil
}
