// Package trace records per-step scheduling and communication decisions
// for debugging a sweep run, without the sweep package needing to know
// anything about how (or whether) that trace gets used. A nil *Recorder is
// always safe to call methods on: every method is a no-op in that case, so
// Sweeper callers that don't care about tracing just pass nil.
package trace

import "fmt"

// Event is one recorded decision.
type Event struct {
	Step          int
	OctantInBlock int
	Kind          string // "step_info", "send", "recv"
	Detail        string
}

// Recorder accumulates Events in order. The zero value is ready to use;
// a nil *Recorder accepts calls but records nothing.
type Recorder struct {
	events []Event
}

// NewRecorder returns a Recorder ready to accumulate events.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) record(step, k int, kind, detail string) {
	if r == nil {
		return
	}
	r.events = append(r.events, Event{Step: step, OctantInBlock: k, Kind: kind, Detail: detail})
}

// StepInfo records a scheduler decision for (step,k).
func (r *Recorder) StepInfo(step, k int, active bool, octant, blockZ int) {
	if r == nil {
		return
	}
	r.record(step, k, "step_info", fmt.Sprintf("active=%v octant=%d block_z=%d", active, octant, blockZ))
}

// Send records an outgoing face exchange.
func (r *Recorder) Send(step, k int, destRank int) {
	r.record(step, k, "send", fmt.Sprintf("dest=%d", destRank))
}

// Recv records an incoming face exchange.
func (r *Recorder) Recv(step, k int, srcRank int) {
	r.record(step, k, "recv", fmt.Sprintf("src=%d", srcRank))
}

// Events returns the recorded events in order. Returns nil for a nil
// Recorder.
func (r *Recorder) Events() []Event {
	if r == nil {
		return nil
	}
	return r.events
}
