// Package slab implements the block-oriented slab allocator described in
// SPEC_FULL.md §4.4: a contiguous region of a fixed header, a per-entry
// ownership table, and a fixed-slot data area, serving variable-length
// (multi-entry) contiguous allocations with a rotating cursor and
// per-entry ownership tags that survive arbitrary free orderings.
package slab

import (
	"encoding/binary"

	"github.com/embtom/sharedlist/errs"
	"github.com/embtom/sharedlist/lockprov"
)

// Header offsets, fixed regardless of lock backend: entry_size and
// entry_count precede the embedded LockState; get_pos and initialized
// follow it. The LockState's byte width is the only backend-dependent
// part of the layout.
const (
	offEntrySize  = 0
	offEntryCount = 4
	offLockState  = 8
)

func headerLen(lockSize int) int {
	return offLockState + lockSize + 8 // + get_pos(4) + initialized(4)
}

// Header is a byte-offset view of an AllocatorHeader living at the start
// of a region. It never copies the underlying bytes: every accessor reads
// or writes through buf, so two Header values wrapping the same buf see
// each other's writes, exactly as two contexts attached to the same shared
// region must.
type Header struct {
	buf        []byte
	lockSize   int
	getPosP    *uint32
	initP      *uint32
}

// NewHeaderView wraps buf, which must be at least headerLen(lockSize)
// bytes, as a Header.
func NewHeaderView(buf []byte, lockSize int) (*Header, error) {
	need := headerLen(lockSize)
	if len(buf) < need {
		return nil, errs.ErrBadRange
	}
	offGetPos := offLockState + lockSize
	offInit := offGetPos + 4
	getPosP, err := lockprov.Uint32At(buf, offGetPos)
	if err != nil {
		return nil, err
	}
	initP, err := lockprov.Uint32At(buf, offInit)
	if err != nil {
		return nil, err
	}
	return &Header{buf: buf[:need], lockSize: lockSize, getPosP: getPosP, initP: initP}, nil
}

func (h *Header) EntrySize() uint32 {
	return binary.NativeEndian.Uint32(h.buf[offEntrySize : offEntrySize+4])
}

func (h *Header) SetEntrySize(v uint32) {
	binary.NativeEndian.PutUint32(h.buf[offEntrySize:offEntrySize+4], v)
}

func (h *Header) EntryCount() uint32 {
	return binary.NativeEndian.Uint32(h.buf[offEntryCount : offEntryCount+4])
}

func (h *Header) SetEntryCount(v uint32) {
	binary.NativeEndian.PutUint32(h.buf[offEntryCount:offEntryCount+4], v)
}

// LockBytes returns the embedded LockState's backing bytes, for
// constructing a lockprov.CAS or lockprov.Filter directly over region
// memory via NewCASAt / NewFilterAt.
func (h *Header) LockBytes() []byte {
	return h.buf[offLockState : offLockState+h.lockSize]
}

func (h *Header) GetPos() uint32 {
	return loadAtomic(h.getPosP)
}

func (h *Header) SetGetPos(v uint32) {
	storeAtomic(h.getPosP, v)
}

func (h *Header) Initialized() uint32 {
	return loadAtomic(h.initP)
}

func (h *Header) SetInitialized(v uint32) {
	storeAtomic(h.initP, v)
}
