package testutil

import "github.com/roach88/vvalues/internal/trace"

var _ trace.Sequencer = (*DeterministicClock)(nil)

// DeterministicClock numbers trace events 1, 2, 3, ... for one recording.
// Two runs of a scenario with fresh clocks stamp identical sequence numbers,
// which golden trace comparison relies on.
//
// It has no locking of its own; trace.Recorder calls Next under its mutex.
type DeterministicClock struct {
	seq int64
}

// NewDeterministicClock creates a clock whose first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next advances the clock and returns the new sequence number.
func (c *DeterministicClock) Next() int64 {
	c.seq++
	return c.seq
}
