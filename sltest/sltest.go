// Package sltest provides small helpers for driving the adversarial,
// multi-goroutine scenarios spec.md §8 describes (concurrent lock/unlock
// races, producer/consumer FIFO checks) without each call site hand-rolling
// its own WaitGroup and error-channel bookkeeping.
package sltest

import "golang.org/x/sync/errgroup"

// RunConcurrent launches n goroutines, each invoking fn with its own
// [0, n) index, and returns the first error any of them produced (if any).
// It is the shared harness behind the Filter-lock mutual-exclusion
// property and the CAS spin/yield property in lockprov's tests, and the
// producer/consumer races in list's tests.
func RunConcurrent(n int, fn func(i int) error) error {
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}

// Repeat runs fn count times sequentially from a single goroutine,
// returning the first error encountered. Useful for the "N contexts each
// doing K lock/unlock pairs" shape of scenario 6 in spec.md §8, composed
// with RunConcurrent for the outer per-context fan-out.
func Repeat(count int, fn func() error) error {
	for i := 0; i < count; i++ {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
