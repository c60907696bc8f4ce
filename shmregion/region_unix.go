//go:build unix

package shmregion

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/embtom/sharedlist/errs"
)

// NewShared creates (create=true) or opens (create=false) a POSIX
// shared-memory object under /dev/shm/name, sizes it to size, and maps it
// MAP_SHARED so every process that opens the same name observes the same
// physical bytes. This is the deployment SPEC_FULL.md's domain-stack
// section calls out by name: two processes mapping one region, rather
// than two goroutines sharing a slice.
//
// A slave's size must match the master's exactly; a mismatch is reported
// as ErrAccessDenied rather than silently truncating or extending the
// mapping, mirroring slab.Handle.Setup's slave-side contract.
func NewShared(name string, size uint32, create bool) (*Region, error) {
	if name == "" || size == 0 {
		return nil, errs.ErrInvalidArg
	}
	path := "/dev/shm/" + name
	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shmregion.NewShared: %w", err)
	}

	attachID := uuid.New()
	if create {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("shmregion.NewShared: %w", err)
		}
		Logger.Info().
			Str("region", name).
			Str("attach_id", attachID.String()).
			Uint32("size", size).
			Msg("shmregion: created shared region")
	} else {
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("shmregion.NewShared: %w", err)
		}
		if uint32(info.Size()) != size {
			f.Close()
			Logger.Warn().
				Str("region", name).
				Str("attach_id", attachID.String()).
				Int64("have", info.Size()).
				Uint32("want", size).
				Msg("shmregion: size mismatch on attach")
			return nil, errs.ErrAccessDenied
		}
		Logger.Info().
			Str("region", name).
			Str("attach_id", attachID.String()).
			Msg("shmregion: attached to shared region")
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shmregion.NewShared: %w", err)
	}

	closed := false
	closer := func() error {
		if closed {
			return nil
		}
		closed = true
		merr := unix.Munmap(mem)
		cerr := f.Close()
		if merr != nil {
			return merr
		}
		return cerr
	}
	return &Region{Mem: mem, Base: uintptr(unsafe.Pointer(&mem[0])), close: closer}, nil
}

// Unlink removes the named shared-memory object from /dev/shm. The master
// calls this once no context will ever attach to the region again; a
// slave must never call it.
func Unlink(name string) error {
	return os.Remove("/dev/shm/" + name)
}
