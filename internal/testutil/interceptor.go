package testutil

import (
	"github.com/roach88/vvalues/internal/intercept"
	"github.com/roach88/vvalues/internal/trace"
)

// NewRecordingInterceptor builds an interceptor whose dispatches are recorded
// under session. A nil clock means a fresh DeterministicClock.
//
// Automatic reclamation is off so wrapper slots are never reused mid-run;
// rendered operands such as "wrapped#3.1" are then stable across runs.
func NewRecordingInterceptor(session string, clock trace.Sequencer, opts ...intercept.Option) (*intercept.Interceptor, *trace.Recorder) {
	if clock == nil {
		clock = NewDeterministicClock()
	}
	rec := trace.NewRecorder(session, trace.WithClock(clock))
	all := append([]intercept.Option{intercept.WithoutAutoReclaim(), intercept.WithObserver(rec)}, opts...)
	return intercept.New(all...), rec
}
