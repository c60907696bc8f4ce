package slab

import (
	"fmt"

	"github.com/embtom/sharedlist/errs"
	"github.com/embtom/sharedlist/lockprov"
	"github.com/embtom/sharedlist/wire"
)

// Mode selects how Setup attaches a Handle to a region: exactly one
// attacher per region may be the master, which publishes the layout; any
// number may be slaves, which verify it.
type Mode int

const (
	Master Mode = iota
	Slave
)

type handleState uint32

const (
	stateCleared    handleState = 0
	stateCalculated handleState = handleState(wire.MagicCalculated)
	stateRegistered handleState = handleState(wire.MagicRegistered)
)

// LockFactory constructs a lockprov.Provider directly over buf, the
// embedded LockState's backing bytes, so the lock itself lives in the
// shared region rather than in process-private memory.
type LockFactory func(buf []byte) (lockprov.Provider, error)

// Handle is a per-context view of an attached (or not-yet-attached) slab
// region: the sizing the caller asked for, the backend-specific lock
// factory, and — once Setup succeeds — cached views of the OwnershipTable
// and DataArea.
type Handle struct {
	lockSize int
	newLock  LockFactory

	state      handleState
	entrySize  uint32 // aligned
	entryCount uint32

	memBase uintptr
	memSize uint32

	header *Header
	table  []byte
	data   []byte
	lock   lockprov.Provider
}

// NewHandle constructs a Handle whose embedded lock occupies lockSize
// bytes of the region and is built by newLock.
func NewHandle(lockSize int, newLock LockFactory) *Handle {
	return &Handle{lockSize: lockSize, newLock: newLock}
}

// NewCASHandle returns a Handle whose embedded lock is a CAS spinlock.
func NewCASHandle() *Handle {
	return NewHandle(lockprov.CASWireSize, func(buf []byte) (lockprov.Provider, error) {
		return lockprov.NewCASAt(buf)
	})
}

// NewFilterHandle returns a Handle whose embedded lock is a Filter lock
// for numCtx participants.
func NewFilterHandle(numCtx int) *Handle {
	return NewHandle(lockprov.FilterWireSize(numCtx), func(buf []byte) (lockprov.Provider, error) {
		return lockprov.NewFilterAt(buf, numCtx)
	})
}

// CalcSize returns the exact region size needed for entryCount entries of
// entrySize bytes each, and stamps the handle as CALCULATED. entrySize is
// rounded up to a machine-word multiple before use.
func (h *Handle) CalcSize(entrySize, entryCount uint32) (uint32, error) {
	if h == nil {
		return 0, errs.ErrNullArg
	}
	if entrySize == 0 || entryCount == 0 {
		return 0, errs.ErrInvalidArg
	}
	if entryCount > MaxEntryCount {
		return 0, errs.ErrInvalidArg
	}
	aligned := alignedSize(entrySize)
	h.entrySize = aligned
	h.entryCount = entryCount
	h.state = stateCalculated
	return uint32(layoutSize(h.lockSize, aligned, entryCount)), nil
}

// Setup attaches the handle to buf, a region of exactly the size CalcSize
// returned. base is the address this context considers buf's origin
// (recorded for parity with the region-lifecycle model; the slab package
// itself addresses entirely through Go slices, not relative pointers).
//
// In Master mode the region is zeroed, the header is populated from the
// handle's sizing, the embedded lock is initialized, and MagicInit is
// published last so slaves never observe a partially written header. In
// Slave mode the region must already carry MagicInit and its entry_size
// and entry_count must equal the handle's, or the attach fails
// ErrAccessDenied.
//
// A buf whose length isn't a multiple of the machine word is rejected
// ErrInvalidArg (a malformed argument, not a sizing disagreement); a buf
// of the right alignment but the wrong length for this handle's sizing is
// rejected ErrBadRange, the same distinction lib_list__mem_setup draws
// between ESTD_INVAL and EPAR_RANGE. The one exception is a Slave attach to
// a published header whose entry_size or entry_count differ from the
// handle's: that fails ErrAccessDenied even though the lengths also differ,
// and the region is not written.
func (h *Handle) Setup(mode Mode, base uintptr, buf []byte) error {
	if h == nil || buf == nil {
		return errs.ErrNullArg
	}
	if h.state != stateCalculated {
		return errs.ErrNotInit
	}
	if len(buf)%wire.Word != 0 {
		return errs.ErrInvalidArg
	}
	want := layoutSize(h.lockSize, h.entrySize, h.entryCount)
	if len(buf) != want {
		if mode == Slave {
			if hdr, err := NewHeaderView(buf, h.lockSize); err == nil &&
				hdr.Initialized() == wire.MagicInit &&
				(hdr.EntrySize() != h.entrySize || hdr.EntryCount() != h.entryCount) {
				return errs.ErrAccessDenied
			}
		}
		return errs.ErrBadRange
	}

	switch mode {
	case Master:
		for i := range buf {
			buf[i] = 0
		}
		hdr, err := NewHeaderView(buf, h.lockSize)
		if err != nil {
			return err
		}
		hdr.SetEntrySize(h.entrySize)
		hdr.SetEntryCount(h.entryCount)
		lock, err := h.newLock(hdr.LockBytes())
		if err != nil {
			return fmt.Errorf("slab.Setup: %w", err)
		}
		if err := lock.Init(); err != nil {
			return fmt.Errorf("slab.Setup: %w", err)
		}
		hdr.SetGetPos(0)
		hdr.SetInitialized(wire.MagicInit)
		h.header = hdr
		h.lock = lock
	case Slave:
		hdr, err := NewHeaderView(buf, h.lockSize)
		if err != nil {
			return err
		}
		if hdr.Initialized() != wire.MagicInit {
			return errs.ErrAccessDenied
		}
		if hdr.EntrySize() != h.entrySize || hdr.EntryCount() != h.entryCount {
			return errs.ErrAccessDenied
		}
		lock, err := h.newLock(hdr.LockBytes())
		if err != nil {
			return fmt.Errorf("slab.Setup: %w", err)
		}
		h.header = hdr
		h.lock = lock
	default:
		return errs.ErrInvalidArg
	}

	tableStart := headerLen(h.lockSize)
	tLen := tableLen(h.entryCount)
	dataStart := tableStart + tLen
	h.table = buf[tableStart : tableStart+tLen]
	h.data = buf[dataStart:]
	h.memBase = base
	h.memSize = uint32(len(buf))
	h.state = stateRegistered
	return nil
}

// Cleanup detaches the handle from its region. It requires REGISTERED,
// verifies the stored size still equals the layout the header implies,
// returns the region's base and size, and clears the handle. In Master
// mode it additionally clears the header's MagicInit so a later slave
// attach fails ErrAccessDenied rather than reattaching to a torn-down
// region.
func (h *Handle) Cleanup(mode Mode) (uintptr, uint32, error) {
	if h == nil {
		return 0, 0, errs.ErrNullArg
	}
	if h.state != stateRegistered {
		return 0, 0, errs.ErrNotInit
	}
	expected := layoutSize(h.lockSize, h.header.EntrySize(), h.header.EntryCount())
	if uint32(expected) != h.memSize {
		return 0, 0, errs.ErrInternalFault
	}

	base, size := h.memBase, h.memSize
	if mode == Master {
		h.header.SetInitialized(0)
	}
	h.reset()
	return base, size, nil
}

func (h *Handle) reset() {
	h.state = stateCleared
	h.entrySize = 0
	h.entryCount = 0
	h.memBase = 0
	h.memSize = 0
	h.header = nil
	h.table = nil
	h.data = nil
	h.lock = nil
}

// EntrySize returns the aligned per-slot size this handle was configured
// with.
func (h *Handle) EntrySize() uint32 { return h.entrySize }

// EntryCount returns the configured number of slots.
func (h *Handle) EntryCount() uint32 { return h.entryCount }
