// Package metrics defines the instrumentation points of the pipeline.
// Concrete recorders live under infra/metrics.
package metrics

// Cache layer labels.
const (
	LayerRaw    = "raw"
	LayerResult = "result"
)

// Drop reason labels.
const (
	DropStartTime = "starttime"
	DropDayIndex  = "day_index"
	DropDate      = "date"
)

// Recorder receives pipeline events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// RecordFetch counts one upstream fetch attempt.
	RecordFetch(ok bool)
	// RecordCache counts a hit or miss on the named cache layer.
	RecordCache(layer string, hit bool)
	// RecordDrop counts a raw item discarded during normalization.
	RecordDrop(reason string)
}

// Nop discards all events.
type Nop struct{}

func (Nop) RecordFetch(bool)         {}
func (Nop) RecordCache(string, bool) {}
func (Nop) RecordDrop(string)        {}
