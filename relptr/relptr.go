// Package relptr implements the base-relative addressing scheme that lets an
// intrusive list or slab allocator be valid in any address space that maps
// the same backing region, regardless of the virtual address at which a
// particular context mapped it.
//
// A RelPtr never dereferences anything; it only carries an offset from a
// caller-chosen base. Translation is a pure, lifetime-free operation — the
// caller is responsible for ensuring the backing region outlives any use of
// a translated address.
package relptr

import "unsafe"

// RelPtr is a byte offset from a runtime-chosen base, stored in place of an
// absolute pointer so that list and allocator nodes remain valid across
// distinct mappings of the same shared region.
type RelPtr uintptr

// ToRelative converts an absolute address to a RelPtr relative to base.
func ToRelative(base, absolute uintptr) RelPtr {
	return RelPtr(absolute - base)
}

// ToAbsolute converts a RelPtr back to an absolute address under base.
func ToAbsolute(base uintptr, rel RelPtr) uintptr {
	return base + uintptr(rel)
}

// Of returns the RelPtr for p relative to base. It is a convenience wrapper
// around ToRelative for callers holding a Go pointer rather than a raw
// uintptr.
func Of[T any](base uintptr, p *T) RelPtr {
	return ToRelative(base, uintptr(unsafe.Pointer(p)))
}

// To recovers a *T from a RelPtr relative to base. The caller must guarantee
// that the backing region is still mapped and that the bytes at the
// resulting address are in fact a live T.
func To[T any](base uintptr, rel RelPtr) *T {
	return (*T)(unsafe.Pointer(ToAbsolute(base, rel)))
}
