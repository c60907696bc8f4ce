package slab

import "sync/atomic"

func loadAtomic(p *uint32) uint32 {
	return atomic.LoadUint32(p)
}

func storeAtomic(p *uint32, v uint32) {
	atomic.StoreUint32(p, v)
}
