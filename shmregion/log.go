package shmregion

import "github.com/rs/zerolog"

// Logger is the diagnostic sink for region lifecycle events (creation,
// attach, size mismatch) and is the only place in this module that logs at
// all — lock, enqueue, dequeue, alloc and free stay silent, matching the
// teacher's own nanosecond-budget primitives. It defaults to a no-op
// logger so embedding a host application never sees output it didn't ask
// for; set it to a configured zerolog.Logger to observe region lifecycle
// events.
var Logger zerolog.Logger = zerolog.Nop()
