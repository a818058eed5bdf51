// Package instrument is a handler family that evaluates operators natively
// while counting them.
//
// Values wrapped by a Meter behave like the values they hold. Results of
// operators are wrapped again so that counting follows the computation.
package instrument

import (
	"sort"

	"github.com/roach88/vvalues/internal/intercept"
	"github.com/roach88/vvalues/internal/native"
	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/value"
)

// Meter counts operators applied to the values it wraps.
type Meter struct {
	ic     *intercept.Interceptor
	key    *intercept.Key
	counts map[op.Operator]int
	ops    []op.Operator
	probe  *probe
}

// NewMeter creates a meter on ic.
func NewMeter(ic *intercept.Interceptor, name string) *Meter {
	m := &Meter{
		ic:     ic,
		key:    intercept.NewKey("instrument:" + name),
		counts: make(map[op.Operator]int),
	}
	m.probe = &probe{meter: m}
	return m
}

// Wrap returns an instrumented version of v.
func (m *Meter) Wrap(v value.Value) value.Value {
	return m.ic.Wrap(v, m.probe, m.key)
}

// Key returns the unwrap key of the meter's values.
func (m *Meter) Key() *intercept.Key { return m.key }

// Value returns the plain value behind an instrumented value. Values from
// other meters and plain values are returned unchanged.
func (m *Meter) Value(v value.Value) value.Value {
	target, ok := m.ic.UnwrapTarget(v, m.key)
	if !ok {
		return v
	}
	return value.Unbox(target)
}

// Count returns how many times o was intercepted.
func (m *Meter) Count(o op.Operator) int { return m.counts[o] }

// Total returns the number of intercepted sites.
func (m *Meter) Total() int { return len(m.ops) }

// Ops returns intercepted operators in the order they ran.
func (m *Meter) Ops() []op.Operator {
	return append([]op.Operator(nil), m.ops...)
}

// Counts returns a copy of the per-operator counts.
func (m *Meter) Counts() map[op.Operator]int {
	out := make(map[op.Operator]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

// Operators returns the distinct intercepted operators, sorted.
func (m *Meter) Operators() []op.Operator {
	out := make([]op.Operator, 0, len(m.counts))
	for k := range m.counts {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reset clears all counts.
func (m *Meter) Reset() {
	m.counts = make(map[op.Operator]int)
	m.ops = nil
}

func (m *Meter) count(o op.Operator) {
	m.counts[o]++
	m.ops = append(m.ops, o)
}

// rewrap keeps results instrumented, except where the operator's result
// describes the operand rather than continuing the computation.
func (m *Meter) rewrap(o op.Operator, res value.Value, err error) (value.Value, error) {
	if err != nil {
		return value.Undefined, err
	}
	if o == op.TypeOf || o == op.Void {
		return res, nil
	}
	return m.Wrap(res), nil
}

// probe is shared by every value of one meter.
type probe struct {
	meter *Meter
}

func (p *probe) Unary(target value.Value, o op.Operator, _ value.Value) (value.Value, error) {
	p.meter.count(o)
	res, err := native.Unary(o, value.Unbox(target))
	return p.meter.rewrap(o, res, err)
}

func (p *probe) Left(target value.Value, o op.Operator, right value.Value) (value.Value, error) {
	p.meter.count(o)
	res, err := native.Binary(o, value.Unbox(target), p.meter.Value(right))
	return p.meter.rewrap(o, res, err)
}

func (p *probe) Right(target value.Value, o op.Operator, left value.Value) (value.Value, error) {
	p.meter.count(o)
	res, err := native.Binary(o, p.meter.Value(left), value.Unbox(target))
	return p.meter.rewrap(o, res, err)
}

func (p *probe) Assign(_, _, _ value.Value, nativeAssign intercept.Thunk) (value.Value, error) {
	p.meter.count(op.Assign)
	if nativeAssign == nil {
		return value.Undefined, nil
	}
	return nativeAssign()
}

// Branch runs exactly one arm, chosen by the truthiness of the held value.
func (p *probe) Branch(target, _ value.Value, then, els intercept.Thunk) (value.Value, error) {
	p.meter.count(op.Conditional)
	arm := els
	if value.ToBoolean(value.Unbox(target)) {
		arm = then
	}
	if arm == nil {
		return value.Undefined, nil
	}
	return arm()
}
