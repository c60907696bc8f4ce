package lockprov

import (
	"unsafe"

	"github.com/embtom/sharedlist/errs"
)

// CASWireSize is the number of bytes the CAS backend's LockState occupies
// in a region layout: a single 32-bit word.
const CASWireSize = 4

// FilterWireSize is the number of bytes the Filter backend's LockState
// occupies for numCtx participants: two numCtx-element uint32 arrays.
func FilterWireSize(numCtx int) int {
	return 8 * numCtx
}

// Uint32At reinterprets the 4 bytes of buf starting at offset as a
// *uint32, so that atomic operations on the returned pointer are visible
// to any other view (in this process or another) mapping the same
// underlying memory. This is one of the few places in the module that
// touches unsafe, and it exists only to let CAS and Filter serve as the
// embedded LockState of an on-region AllocatorHeader, and to let slab's
// Header expose its get_pos/initialized words the same way, per
// SPEC_FULL.md's wire-format requirements.
func Uint32At(buf []byte, offset int) (*uint32, error) {
	if offset < 0 || offset+4 > len(buf) {
		return nil, errs.ErrBadRange
	}
	return (*uint32)(unsafe.Pointer(&buf[offset])), nil
}

func uint32At(buf []byte, offset int) (*uint32, error) {
	return Uint32At(buf, offset)
}
