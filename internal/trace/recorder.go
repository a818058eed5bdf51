package trace

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/vvalues/internal/intercept"
)

// Sink persists events. Implemented by store.Store.
type Sink interface {
	WriteEvents(ctx context.Context, events []Event) error
}

// Recorder collects dispatch events for one session.
//
// Recorder implements intercept.Observer. Observe is normally called from
// the interceptor's goroutine; the mutex lets other goroutines read the log.
type Recorder struct {
	mu      sync.Mutex
	session string
	clock   Sequencer
	events  []Event
	flushed int
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock replaces the recorder's sequencer.
func WithClock(c Sequencer) RecorderOption {
	return func(r *Recorder) {
		if c != nil {
			r.clock = c
		}
	}
}

// NewRecorder creates a recorder for session.
func NewRecorder(session string, opts ...RecorderOption) *Recorder {
	r := &Recorder{session: session, clock: NewClock()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Session returns the session ID stamped on every event.
func (r *Recorder) Session() string { return r.session }

// Observe records one dispatch.
func (r *Recorder) Observe(e intercept.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, NewEvent(r.clock.Next(), r.session, e))
}

// Events returns a copy of the recorded events in sequence order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Flush writes events not yet flushed to sink.
// On error nothing is marked flushed, so the next Flush retries the batch.
func (r *Recorder) Flush(ctx context.Context, sink Sink) error {
	r.mu.Lock()
	pending := append([]Event(nil), r.events[r.flushed:]...)
	r.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	if err := sink.WriteEvents(ctx, pending); err != nil {
		return fmt.Errorf("flush session %s: %w", r.session, err)
	}

	r.mu.Lock()
	r.flushed += len(pending)
	r.mu.Unlock()
	return nil
}

// Count returns how many events match site and route. Empty arguments
// match anything.
func Count(events []Event, site, route string) int {
	n := 0
	for _, e := range events {
		if (site == "" || e.Site == site) && (route == "" || e.Route == route) {
			n++
		}
	}
	return n
}
