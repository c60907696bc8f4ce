package shmregion

import (
	"testing"

	"github.com/embtom/sharedlist/errs"
	"github.com/embtom/sharedlist/slab"
	"github.com/stretchr/testify/require"
)

func TestAttachSlabMasterThenSlaveSharesAllocations(t *testing.T) {
	master := slab.NewCASHandle()
	probe := slab.NewCASHandle()
	size, err := probe.CalcSize(16, 4)
	require.NoError(t, err)

	region, err := NewLocal(size)
	require.NoError(t, err)

	require.NoError(t, AttachSlabMaster(region, master, 16, 4))
	a, err := master.Alloc(2, 0)
	require.NoError(t, err)
	copy(a, []byte("0123456789abcdef0123456789abcdef"))

	slave := slab.NewCASHandle()
	require.NoError(t, AttachSlabSlave(region, slave, 16, 4))

	_, err = slave.Alloc(2, 0)
	require.NoError(t, err)
	_, err = slave.Alloc(1, 0)
	require.ErrorIs(t, err, errs.ErrNoSpace)
}

func TestAttachSlabSlaveRejectsEntrySizeMismatch(t *testing.T) {
	master := slab.NewCASHandle()
	probe := slab.NewCASHandle()
	size, err := probe.CalcSize(16, 4)
	require.NoError(t, err)
	region, err := NewLocal(size)
	require.NoError(t, err)
	require.NoError(t, AttachSlabMaster(region, master, 16, 4))

	slave := slab.NewCASHandle()
	err = AttachSlabSlave(region, slave, 32, 4)
	require.ErrorIs(t, err, errs.ErrInvalidArg)
}
