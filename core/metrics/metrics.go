// Package metrics defines the interface through which the scheduling
// engine reports operational events. Implementations live under
// infra/metrics; NopRecorder is the default when none is wired.
package metrics

// Recorder receives engine events. Implementations must be cheap: the
// engine calls them synchronously on every commit.
type Recorder interface {
	// RecordCut reports a committed cut of n sections.
	RecordCut(sections int)
	// RecordStaleSection reports a commit rejected by the staleness check.
	RecordStaleSection()
	// RecordFreeLength reports the summed free length after a mutation.
	RecordFreeLength(length float64)
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) RecordCut(int)            {}
func (NopRecorder) RecordStaleSection()      {}
func (NopRecorder) RecordFreeLength(float64) {}
