//go:build unix

package shmregion

import (
	"testing"
	"unsafe"

	"github.com/embtom/sharedlist/list"
	"github.com/embtom/sharedlist/lockprov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSharedRegionRoundTripsAcrossTwoMappings opens the same /dev/shm
// object twice, standing in for two unrelated processes. The queue's
// sentinel, lock and the one element enqueued all live inside the shared
// bytes (carved by offset, never heap-allocated), so a relative pointer
// written through one mapping resolves to the right physical bytes when
// translated through the other mapping's own, numerically different, base.
func TestSharedRegionRoundTripsAcrossTwoMappings(t *testing.T) {
	name := "sharedlist-test-" + t.Name()
	lockSize := lockprov.CASWireSize
	queueSize := QueueRegionSize(lockSize)
	elemOff := queueSize
	elemSize := uint32(unsafe.Sizeof(elem{}))
	size := elemOff + elemSize

	master, err := NewShared(name, size, true)
	require.NoError(t, err)
	defer Unlink(name)
	defer master.Close()

	masterQueue := &Region{Mem: master.Mem[:queueSize], Base: master.Base}
	q1, err := AttachQueueMaster(masterQueue, lockSize, casFactory)
	require.NoError(t, err)

	a := (*elem)(unsafe.Pointer(&master.Mem[elemOff]))
	a.val = 42
	require.NoError(t, list.Enqueue(q1, &a.Node, 0, master.Base))

	other, err := NewShared(name, size, false)
	require.NoError(t, err)
	defer other.Close()

	otherQueue := &Region{Mem: other.Mem[:queueSize], Base: other.Base}
	q2, err := AttachQueueSlave(otherQueue, lockSize, casFactory)
	require.NoError(t, err)

	got, err := list.Dequeue(q2, 0, other.Base)
	require.NoError(t, err)
	gotElem := (*elem)(unsafe.Pointer(got))
	assert.Equal(t, 42, gotElem.val)

	empty, err := list.Empty(q1, 0, master.Base)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestNewSharedRejectsSizeMismatch(t *testing.T) {
	name := "sharedlist-test-mismatch-" + t.Name()
	size := QueueRegionSize(lockprov.CASWireSize)

	master, err := NewShared(name, size, true)
	require.NoError(t, err)
	defer Unlink(name)
	defer master.Close()

	_, err = NewShared(name, size+4, false)
	require.Error(t, err)
}
