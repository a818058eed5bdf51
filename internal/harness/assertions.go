package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/vvalues/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Trace    []trace.Event // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s -> %s (%s)\n",
				ev.Seq, ev.Site, ev.Operator, ev.Result, ev.Route)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against a finished result and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertContextDepth:
		return assertState(a, "context depth", result.Depth)
	case AssertLiveWrappers:
		return assertState(a, "live wrappers", result.Live)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// matchEvent applies the assertion's site/operator/route filter.
func matchEvent(ev trace.Event, a Assertion) bool {
	return (a.Site == "" || ev.Site == a.Site) &&
		(a.Operator == "" || ev.Operator == a.Operator) &&
		(a.Route == "" || ev.Route == a.Route)
}

func describeFilter(a Assertion) string {
	var parts []string
	if a.Site != "" {
		parts = append(parts, "site="+a.Site)
	}
	if a.Operator != "" {
		parts = append(parts, "operator="+a.Operator)
	}
	if a.Route != "" {
		parts = append(parts, "route="+a.Route)
	}
	if len(parts) == 0 {
		return "any event"
	}
	return strings.Join(parts, " ")
}

func assertTraceContains(events []trace.Event, a Assertion) error {
	for _, ev := range events {
		if matchEvent(ev, a) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: describeFilter(a),
		Actual:   "not found in trace",
		Trace:    events,
	}
}

func assertTraceCount(events []trace.Event, a Assertion) error {
	count := 0
	for _, ev := range events {
		if matchEvent(ev, a) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d events matching %s", a.Count, describeFilter(a)),
			Actual:   fmt.Sprintf("%d events", count),
			Trace:    events,
		}
	}
	return nil
}

// assertTraceOrder checks that operators first appear in the given order.
// Intervening events are allowed.
func assertTraceOrder(events []trace.Event, a Assertion) error {
	positions := make(map[string]int)
	for i, ev := range events {
		if _, seen := positions[ev.Operator]; !seen {
			positions[ev.Operator] = i + 1
		}
	}

	for _, o := range a.Operators {
		if positions[o] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all operators present: %v", a.Operators),
				Actual:   fmt.Sprintf("missing operator: %s", o),
				Trace:    events,
			}
		}
	}

	for i := 1; i < len(a.Operators); i++ {
		prev, curr := a.Operators[i-1], a.Operators[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("operators in order: %v", a.Operators),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: events,
			}
		}
	}
	return nil
}

func assertState(a Assertion, what string, actual int) error {
	if actual != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s = %d", what, a.Count),
			Actual:   fmt.Sprintf("%s = %d", what, actual),
		}
	}
	return nil
}
