package easel

import "sync/atomic"

// uidCounter starts at zero so the first id handed out is 1. It is never
// reset while the process runs.
var uidCounter atomic.Uint32

// NextUID returns the next process-wide node identifier.
func NextUID() uint32 {
	return uidCounter.Add(1)
}
