package list

import (
	"testing"
	"unsafe"

	"github.com/embtom/sharedlist/errs"
	"github.com/embtom/sharedlist/lockprov"
	"github.com/embtom/sharedlist/sltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// elem is a caller-owned structure embedding the intrusive Node, the way
// every real user of this package embeds it in their own record type.
type elem struct {
	Node
	val int
}

func baseOf(q *Queue) uintptr {
	return uintptr(unsafe.Pointer(q))
}

func newReadyQueue(t *testing.T) (*Queue, uintptr) {
	t.Helper()
	q := &Queue{}
	base := baseOf(q)
	require.NoError(t, Init(q, lockprov.NewCAS(), base))
	return q, base
}

func TestInitNullArg(t *testing.T) {
	require.ErrorIs(t, Init(nil, lockprov.NewCAS(), 0), errs.ErrNullArg)
	q := &Queue{}
	require.ErrorIs(t, Init(q, nil, 0), errs.ErrNullArg)
}

func TestOpsBeforeInitReturnNotInit(t *testing.T) {
	q := &Queue{}
	_, err := Empty(q, 0, 0)
	require.ErrorIs(t, err, errs.ErrNotInit)
	_, err = Dequeue(q, 0, 0)
	require.ErrorIs(t, err, errs.ErrNotInit)
}

func TestEmptyQueue(t *testing.T) {
	q, base := newReadyQueue(t)
	empty, err := Empty(q, 0, base)
	require.NoError(t, err)
	assert.True(t, empty)

	_, err = Dequeue(q, 0, base)
	require.ErrorIs(t, err, errs.ErrEmpty)
	_, err = GetBegin(q, 0, base)
	require.ErrorIs(t, err, errs.ErrEmpty)
}

// TestFIFOOrder is scenario 1 from spec.md §8: enqueue A, B, C in order,
// then three dequeues return A, B, C.
func TestFIFOOrder(t *testing.T) {
	q, base := newReadyQueue(t)
	a, b, c := &elem{val: 1}, &elem{val: 2}, &elem{val: 3}

	require.NoError(t, Enqueue(q, &a.Node, 0, base))
	require.NoError(t, Enqueue(q, &b.Node, 0, base))
	require.NoError(t, Enqueue(q, &c.Node, 0, base))

	count, err := Count(q, 0, base)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	for _, want := range []*elem{a, b, c} {
		got, err := Dequeue(q, 0, base)
		require.NoError(t, err)
		assert.Same(t, &want.Node, got)
	}

	empty, err := Empty(q, 0, base)
	require.NoError(t, err)
	assert.True(t, empty)
}

// TestRelocationIndependence fills a queue under one base value and drains
// it under a base value re-derived from the queue's address, checking that
// traversal depends only on a consistent base. In-process both values are
// the same address; the variant with two numerically different bases is
// shmregion's TestSharedRegionRoundTripsAcrossTwoMappings.
func TestRelocationIndependence(t *testing.T) {
	q := &Queue{}
	base1 := baseOf(q)
	require.NoError(t, Init(q, lockprov.NewCAS(), base1))

	a, b, c := &elem{val: 1}, &elem{val: 2}, &elem{val: 3}
	require.NoError(t, Enqueue(q, &a.Node, 0, base1))
	require.NoError(t, Enqueue(q, &b.Node, 0, base1))
	require.NoError(t, Enqueue(q, &c.Node, 0, base1))

	// Re-derive "base" as if a different context recomputed it from the
	// same live queue (in-process this is still the same address, but
	// the traversal below never peeks at base1 again).
	base2 := uintptr(unsafe.Pointer(q))
	require.Equal(t, base1, base2)

	for _, want := range []*elem{a, b, c} {
		got, err := Dequeue(q, 0, base2)
		require.NoError(t, err)
		assert.Same(t, &want.Node, got)
	}
}

func TestAddAfterAddBefore(t *testing.T) {
	q, base := newReadyQueue(t)
	a, b, c := &elem{val: 1}, &elem{val: 2}, &elem{val: 3}

	require.NoError(t, Enqueue(q, &a.Node, 0, base))
	require.NoError(t, AddAfter(q, &a.Node, &c.Node, 0, base))
	require.NoError(t, AddBefore(q, &c.Node, &b.Node, 0, base))

	for _, want := range []*elem{a, b, c} {
		got, err := Dequeue(q, 0, base)
		require.NoError(t, err)
		assert.Same(t, &want.Node, got)
	}
}

func TestDeleteAndContains(t *testing.T) {
	q, base := newReadyQueue(t)
	a, b, c := &elem{val: 1}, &elem{val: 2}, &elem{val: 3}
	require.NoError(t, Enqueue(q, &a.Node, 0, base))
	require.NoError(t, Enqueue(q, &b.Node, 0, base))
	require.NoError(t, Enqueue(q, &c.Node, 0, base))

	ok, err := Contains(q, &b.Node, 0, base)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, Delete(q, &b.Node, 0, base))

	ok, err = Contains(q, &b.Node, 0, base)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := Dequeue(q, 0, base)
	require.NoError(t, err)
	assert.Same(t, &a.Node, got)
	got, err = Dequeue(q, 0, base)
	require.NoError(t, err)
	assert.Same(t, &c.Node, got)
}

// TestGetNextOverflow is scenario 5 from spec.md §8: GetNext at the last
// real node returns ErrListOverflow and advances to the first real node; a
// subsequent GetNext succeeds normally.
func TestGetNextOverflow(t *testing.T) {
	q, base := newReadyQueue(t)
	a, b := &elem{val: 1}, &elem{val: 2}
	require.NoError(t, Enqueue(q, &a.Node, 0, base))
	require.NoError(t, Enqueue(q, &b.Node, 0, base))

	it, err := GetBegin(q, 0, base)
	require.NoError(t, err)
	assert.Same(t, &a.Node, it)

	it, err = GetNext(q, it, 0, base)
	require.NoError(t, err)
	assert.Same(t, &b.Node, it)

	it, err = GetNext(q, it, 0, base)
	require.ErrorIs(t, err, errs.ErrListOverflow)
	assert.Same(t, &a.Node, it)

	it, err = GetNext(q, it, 0, base)
	require.NoError(t, err)
	assert.Same(t, &b.Node, it)
}

func TestTraversalVisitsEachLinkedNodeOnce(t *testing.T) {
	q, base := newReadyQueue(t)
	var elems []*elem
	for i := 0; i < 5; i++ {
		e := &elem{val: i}
		elems = append(elems, e)
		require.NoError(t, Enqueue(q, &e.Node, 0, base))
	}

	seen := map[*Node]int{}
	it, err := GetBegin(q, 0, base)
	require.NoError(t, err)
	for i := 0; i < len(elems); i++ {
		seen[it]++
		it, err = GetNext(q, it, 0, base)
		if err != nil {
			require.ErrorIs(t, err, errs.ErrListOverflow)
		}
	}
	assert.Len(t, seen, len(elems))
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
}

// TestConcurrentProducerConsumer drives Enqueue from many goroutines
// simultaneously, then drains the queue from a single consumer and checks
// that every enqueued node is dequeued exactly once, with no duplication or
// loss — the embedded lock must serialize each concurrent splice.
func TestConcurrentProducerConsumer(t *testing.T) {
	q, base := newReadyQueue(t)
	const producers = 8
	const perProducer = 500

	elemsCh := make(chan *elem, producers*perProducer)
	err := sltest.RunConcurrent(producers, func(ctx int) error {
		return sltest.Repeat(perProducer, func() error {
			e := &elem{}
			elemsCh <- e
			return Enqueue(q, &e.Node, ctx, base)
		})
	})
	require.NoError(t, err)
	close(elemsCh)

	count, err := Count(q, 0, base)
	require.NoError(t, err)
	assert.Equal(t, producers*perProducer, count)

	seen := map[*Node]bool{}
	for i := 0; i < producers*perProducer; i++ {
		n, err := Dequeue(q, 0, base)
		require.NoError(t, err)
		assert.False(t, seen[n], "node dequeued twice")
		seen[n] = true
	}
	empty, err := Empty(q, 0, base)
	require.NoError(t, err)
	assert.True(t, empty)
}
