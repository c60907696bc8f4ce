//go:build !unix

package shmregion

import "github.com/embtom/sharedlist/errs"

// NewShared is unavailable outside unix: there is no portable POSIX
// shared-memory object to back it with. NewLocal remains available on
// every platform for the single-process deployment.
func NewShared(name string, size uint32, create bool) (*Region, error) {
	return nil, errs.ErrAccessDenied
}

// Unlink is unavailable outside unix, for the same reason as NewShared.
func Unlink(name string) error {
	return errs.ErrAccessDenied
}
