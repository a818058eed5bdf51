package intercept

import (
	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/value"
)

// tagged is a full-capability handler that answers every site with its tag
// and remembers what it was called with.
type tagged struct {
	tag   string
	calls []string
}

func (h *tagged) record(site string, o op.Operator) value.Value {
	h.calls = append(h.calls, site+":"+string(o))
	return value.String(h.tag)
}

func (h *tagged) Unary(_ value.Value, o op.Operator, _ value.Value) (value.Value, error) {
	return h.record("unary", o), nil
}

func (h *tagged) Left(_ value.Value, o op.Operator, _ value.Value) (value.Value, error) {
	return h.record("left", o), nil
}

func (h *tagged) Right(_ value.Value, o op.Operator, _ value.Value) (value.Value, error) {
	return h.record("right", o), nil
}

func (h *tagged) Assign(_, _, _ value.Value, _ Thunk) (value.Value, error) {
	return h.record("assign", op.Assign), nil
}

func (h *tagged) Branch(_, _ value.Value, _, _ Thunk) (value.Value, error) {
	return h.record("branch", op.Conditional), nil
}

// inert implements nothing.
type inert struct{}

func countingThunk(n *int, v value.Value) Thunk {
	return func() (value.Value, error) {
		*n++
		return v, nil
	}
}
