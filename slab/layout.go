package slab

import "github.com/embtom/sharedlist/wire"

// MaxEntryCount is the largest entry_count the ownership-table tag format
// can address: a tag packs both start_pos and run_length into 16 bits
// each, so entry_count and any single allocation's run length are each
// bounded by 2^16.
const MaxEntryCount = 1 << 16

func tableLen(entryCount uint32) int {
	return 4 * int(entryCount)
}

func dataLen(alignedEntrySize, entryCount uint32) int {
	return int(alignedEntrySize) * int(entryCount)
}

// layoutSize returns the exact region size calc_size prescribes:
// sizeof(Header) + entry_count * sizeof(cell) + entry_count * aligned
// entry_size.
func layoutSize(lockSize int, alignedEntrySize, entryCount uint32) int {
	return headerLen(lockSize) + tableLen(entryCount) + dataLen(alignedEntrySize, entryCount)
}

func packTag(pos, length uint32) uint32 {
	return (pos << 16) | (length & 0xFFFF)
}

func unpackTag(tag uint32) (pos, length uint32) {
	return tag >> 16, tag & 0xFFFF
}

func alignedSize(entrySize uint32) uint32 {
	return wire.AlignUp(entrySize, wire.Word)
}
