package shmregion

import (
	"testing"

	"github.com/embtom/sharedlist/errs"
	"github.com/embtom/sharedlist/list"
	"github.com/embtom/sharedlist/lockprov"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type elem struct {
	list.Node
	val int
}

func casFactory(buf []byte) (lockprov.Provider, error) {
	return lockprov.NewCASAt(buf)
}

func TestAttachQueueMasterThenSlaveSeesPublishedOrder(t *testing.T) {
	size := QueueRegionSize(lockprov.CASWireSize)
	region, err := NewLocal(size)
	require.NoError(t, err)

	master, err := AttachQueueMaster(region, lockprov.CASWireSize, casFactory)
	require.NoError(t, err)

	a, b := &elem{val: 1}, &elem{val: 2}
	require.NoError(t, list.Enqueue(master, &a.Node, 0, region.Base))
	require.NoError(t, list.Enqueue(master, &b.Node, 0, region.Base))

	slave, err := AttachQueueSlave(region, lockprov.CASWireSize, casFactory)
	require.NoError(t, err)

	got, err := list.Dequeue(slave, 0, region.Base)
	require.NoError(t, err)
	assert.Same(t, &a.Node, got)

	got, err = list.Dequeue(slave, 0, region.Base)
	require.NoError(t, err)
	assert.Same(t, &b.Node, got)

	empty, err := list.Empty(master, 0, region.Base)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestAttachQueueSlaveBeforePublicationRejected(t *testing.T) {
	size := QueueRegionSize(lockprov.CASWireSize)
	region, err := NewLocal(size)
	require.NoError(t, err)

	_, err = AttachQueueSlave(region, lockprov.CASWireSize, casFactory)
	require.ErrorIs(t, err, errs.ErrAccessDenied)
}

func TestAttachQueueMasterRejectsWrongSize(t *testing.T) {
	region, err := NewLocal(QueueRegionSize(lockprov.CASWireSize) + 1)
	require.NoError(t, err)
	_, err = AttachQueueMaster(region, lockprov.CASWireSize, casFactory)
	require.ErrorIs(t, err, errs.ErrInvalidArg)
}
