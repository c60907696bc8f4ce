package shmregion

import (
	"github.com/embtom/sharedlist/errs"
	"github.com/embtom/sharedlist/slab"
)

// AttachSlabMaster sizes h for entrySize/entryCount, checks region matches
// that size exactly, and publishes it as master — the slab half of the
// "one process populates a pool, others only allocate from it" deployment
// SPEC_FULL.md §4.5 and §1 describe. slab.Handle already addresses its
// OwnershipTable and DataArea purely through the []byte it is given, so no
// further adaptation is needed for it to live in real shared memory: a
// Region obtained from NewShared works exactly like one from NewLocal.
func AttachSlabMaster(region *Region, h *slab.Handle, entrySize, entryCount uint32) error {
	if region == nil || h == nil {
		return errs.ErrNullArg
	}
	size, err := h.CalcSize(entrySize, entryCount)
	if err != nil {
		return err
	}
	if uint32(len(region.Mem)) != size {
		return errs.ErrInvalidArg
	}
	return h.Setup(slab.Master, region.Base, region.Mem)
}

// AttachSlabSlave is AttachSlabMaster's slave counterpart: it verifies
// rather than publishes. A region whose length differs from the size
// entrySize/entryCount imply fails ErrInvalidArg before the header is
// read; a region of the right length whose header is unpublished or
// carries different parameters fails ErrAccessDenied.
func AttachSlabSlave(region *Region, h *slab.Handle, entrySize, entryCount uint32) error {
	if region == nil || h == nil {
		return errs.ErrNullArg
	}
	size, err := h.CalcSize(entrySize, entryCount)
	if err != nil {
		return err
	}
	if uint32(len(region.Mem)) != size {
		return errs.ErrInvalidArg
	}
	return h.Setup(slab.Slave, region.Base, region.Mem)
}
