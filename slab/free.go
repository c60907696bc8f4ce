package slab

import (
	"unsafe"

	"github.com/embtom/sharedlist/errs"
)

// Free reclaims the allocation whose DataArea bytes ptr points into. The
// ownership table's double-witness — the tag at ptr's own position and
// the tag at the run's last cell must be identical and must decode back
// to ptr's own position — lets Free validate the pointer in O(1) without
// a per-allocation side table, and catches both pointers into the
// interior of a live run and pointers whose run has already been resized
// or freed.
//
// Every way a pointer can fail to be one free legitimately returned —
// outside the DataArea entirely, misaligned to an entry boundary, or
// pointing at a position whose tag doesn't corroborate it — reports
// ErrInvalidArg, not ErrBadRange: spec.md §7 and §8(c) classify all of
// these as corruption/misuse of free's own contract, the same resolution
// lib_list__mem_free makes for every one of its pointer-validity checks.
func (h *Handle) Free(ptr []byte, ctx int) error {
	if h == nil || ptr == nil || len(ptr) == 0 {
		return errs.ErrNullArg
	}
	if h.state != stateRegistered {
		return errs.ErrNotInit
	}

	dataStart := uintptr(unsafe.Pointer(&h.data[0]))
	dataEnd := dataStart + uintptr(len(h.data))
	addr := uintptr(unsafe.Pointer(&ptr[0]))
	if addr < dataStart || addr >= dataEnd {
		return errs.ErrInvalidArg
	}
	off := addr - dataStart
	if off%uintptr(h.entrySize) != 0 {
		return errs.ErrInvalidArg
	}
	pos := uint32(off / uintptr(h.entrySize))

	if err := h.lock.Lock(ctx); err != nil {
		return err
	}
	defer h.lock.Unlock(ctx)

	tag := cellAt(h.table, pos)
	encPos, encLen := unpackTag(tag)
	if encLen == 0 || encPos != pos || pos+encLen > h.entryCount || cellAt(h.table, pos+encLen-1) != tag {
		return errs.ErrInvalidArg
	}

	for i := pos; i < pos+encLen; i++ {
		setCellAt(h.table, i, 0)
	}
	lo := pos * h.entrySize
	hi := lo + encLen*h.entrySize
	clear(h.data[lo:hi])
	return nil
}
