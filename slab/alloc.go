package slab

import (
	"encoding/binary"

	"github.com/embtom/sharedlist/errs"
)

func cellAt(table []byte, pos uint32) uint32 {
	return binary.NativeEndian.Uint32(table[pos*4 : pos*4+4])
}

func setCellAt(table []byte, pos uint32, v uint32) {
	binary.NativeEndian.PutUint32(table[pos*4:pos*4+4], v)
}

func runFree(table []byte, start, length uint32) bool {
	for i := start; i < start+length; i++ {
		if cellAt(table, i) != 0 {
			return false
		}
	}
	return true
}

// Alloc serves a contiguous run of reqEntryCount slots, amortizing search
// time across a steady-churn workload with a rotating cursor: correctness
// never depends on the cursor, only performance. Allocations never
// straddle the end of the table — a run that would overrun is rejected in
// favor of restarting the scan from position 0.
func (h *Handle) Alloc(reqEntryCount uint32, ctx int) ([]byte, error) {
	if h == nil {
		return nil, errs.ErrNullArg
	}
	if h.state != stateRegistered {
		return nil, errs.ErrNotInit
	}
	if reqEntryCount == 0 || reqEntryCount > h.entryCount {
		return nil, errs.ErrNoSpace
	}

	if err := h.lock.Lock(ctx); err != nil {
		return nil, err
	}
	defer h.lock.Unlock(ctx)

	maxStart := h.entryCount - reqEntryCount
	p := h.header.GetPos()
	if p > maxStart {
		p = 0
	}

	found := false
	var start uint32
	for s := p; s <= maxStart; s++ {
		if runFree(h.table, s, reqEntryCount) {
			start, found = s, true
			break
		}
	}
	if !found {
		for s := uint32(0); s < p; s++ {
			if runFree(h.table, s, reqEntryCount) {
				start, found = s, true
				break
			}
		}
	}
	if !found {
		return nil, errs.ErrNoSpace
	}

	tag := packTag(start, reqEntryCount)
	for i := start; i < start+reqEntryCount; i++ {
		setCellAt(h.table, i, tag)
	}
	h.header.SetGetPos(start + reqEntryCount)

	lo := start * h.entrySize
	hi := lo + reqEntryCount*h.entrySize
	return h.data[lo:hi], nil
}
