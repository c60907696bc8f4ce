package list

import "github.com/embtom/sharedlist/relptr"

// Node is the intrusive linkage embedded in every element a Queue can
// hold. Its links are stored as base-relative addresses so the same bytes
// remain valid under any mapping base that shares the backing region — the
// caller owns the storage a Node lives in; the Queue never allocates or
// frees a Node itself.
//
// A Node is "linked" once both of its links refer to other members of a
// Queue; it is "unlinked" immediately after Delete or Dequeue detaches it.
type Node struct {
	Next, Prev relptr.RelPtr
}

// selfRef returns the RelPtr a sentinel uses to link to itself: the
// canonical representation of an empty queue.
func selfRef(base uintptr, n *Node) relptr.RelPtr {
	return relptr.Of(base, n)
}

func nextOf(base uintptr, n *Node) *Node {
	return relptr.To[Node](base, n.Next)
}

func prevOf(base uintptr, n *Node) *Node {
	return relptr.To[Node](base, n.Prev)
}

func setNext(base uintptr, n, target *Node) {
	n.Next = relptr.Of(base, target)
}

func setPrev(base uintptr, n, target *Node) {
	n.Prev = relptr.Of(base, target)
}
