package harness

import (
	"github.com/roach88/vvalues/internal/trace"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Index  int    `json:"index"`
	Op     string `json:"op"`
	Value  string `json:"value"`
	Render string `json:"render,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Session is the session ID stamped on the trace.
	Session string `json:"session"`

	// Trace contains every dispatch in seq order.
	Trace []trace.Event `json:"trace"`

	// Steps records what each step produced.
	Steps []StepResult `json:"steps"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// Depth is the context stack depth after the last step.
	Depth int `json:"depth"`

	// Live is the number of live wrappers after the last step.
	Live int `json:"live"`
}

// NewResult creates a new passing result.
func NewResult(session string) *Result {
	return &Result{
		Pass:    true,
		Session: session,
		Trace:   []trace.Event{},
		Steps:   []StepResult{},
		Errors:  []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
