// Package prof provides lightweight phase timing for the reference miner
// CLI: search and plot rendering each get tracked
// under a label so a run can report where its wall-clock time went,
// without pulling in a metrics library for a single-process tool.
package prof

import (
	"sync"
	"time"
)

// Phase is one completed, labeled timing measurement.
type Phase struct {
	Label string
	Dur   time.Duration
}

var (
	mu     sync.Mutex
	record []Phase
)

// Track records the duration since start under name. Call via
// `defer prof.Track(time.Now(), "search")` at the top of a phase.
func Track(start time.Time, name string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Phase{Label: name, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns every phase recorded so far and clears the log,
// so a CLI can print a per-run report without phases leaking into the next.
func SnapshotAndReset() []Phase {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Phase, len(record))
	copy(out, record)
	record = nil
	return out
}
