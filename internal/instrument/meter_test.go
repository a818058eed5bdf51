package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vvalues/internal/intercept"
	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/value"
)

func TestArithmeticIsNativeAndCounted(t *testing.T) {
	ic := intercept.New()
	m := NewMeter(ic, "t")
	x := m.Wrap(value.Number(6))

	y, err := ic.Binary(op.Mul, x, value.Number(7))
	require.NoError(t, err)
	z, err := ic.Binary(op.Sub, value.Number(50), y)
	require.NoError(t, err)
	w, err := ic.Unary(op.Negate, z)
	require.NoError(t, err)

	assert.True(t, ic.IsWrapped(w))
	assert.True(t, value.StrictEquals(value.Number(-8), m.Value(w)))
	assert.Equal(t, []op.Operator{op.Mul, op.Sub, op.Negate}, m.Ops())
	assert.Equal(t, 3, m.Total())
}

func TestBothOperandsInstrumented(t *testing.T) {
	ic := intercept.New()
	m := NewMeter(ic, "t")

	got, err := ic.Binary(op.Add, m.Wrap(value.String("a")), m.Wrap(value.String("b")))
	require.NoError(t, err)
	assert.Equal(t, "ab", value.ToString(m.Value(got)))
	assert.Equal(t, 1, m.Count(op.Add))
}

func TestTypeofIsNotRewrapped(t *testing.T) {
	ic := intercept.New()
	m := NewMeter(ic, "t")

	got, err := ic.Unary(op.TypeOf, m.Wrap(value.Number(1)))
	require.NoError(t, err)
	assert.False(t, ic.IsWrapped(got))
	assert.Equal(t, "number", value.ToString(got))

	got, err = ic.Unary(op.Void, m.Wrap(value.Number(1)))
	require.NoError(t, err)
	assert.True(t, got.IsUndefined())
}

func TestBranchPicksByTruthiness(t *testing.T) {
	ic := intercept.New()
	m := NewMeter(ic, "t")

	cond, err := ic.Binary(op.Lt, m.Wrap(value.Number(1)), value.Number(2))
	require.NoError(t, err)
	require.True(t, ic.IsBranchable(cond))

	thenCalls, elseCalls := 0, 0
	got, err := ic.Branch(cond, value.Undefined,
		func() (value.Value, error) { thenCalls++; return value.String("yes"), nil },
		func() (value.Value, error) { elseCalls++; return value.String("no"), nil })
	require.NoError(t, err)
	assert.Equal(t, "yes", value.ToString(got))
	assert.Equal(t, 1, thenCalls)
	assert.Zero(t, elseCalls)

	falsy := m.Wrap(value.String(""))
	got, err = ic.Branch(falsy, value.Undefined, nil,
		func() (value.Value, error) { return value.String("no"), nil })
	require.NoError(t, err)
	assert.Equal(t, "no", value.ToString(got))
	assert.Equal(t, 2, m.Count(op.Conditional))
}

func TestAssignCountsAndRunsThunk(t *testing.T) {
	ic := intercept.New()
	m := NewMeter(ic, "t")
	obj := value.NewObject(nil)
	v := m.Wrap(value.Number(3))

	got, err := ic.Assign(value.ObjectValue(obj), value.String("n"), v, func() (value.Value, error) {
		obj.Set("n", v)
		return v, nil
	})
	require.NoError(t, err)
	assert.True(t, value.StrictEquals(v, got))
	assert.Equal(t, 1, m.Count(op.Assign))
}

func TestOtherMeterValuesAreOpaque(t *testing.T) {
	ic := intercept.New()
	a, b := NewMeter(ic, "a"), NewMeter(ic, "b")

	got, err := ic.Binary(op.Add, a.Wrap(value.Number(1)), b.Wrap(value.Number(2)))
	require.NoError(t, err)
	assert.Equal(t, "1[object Object]", value.ToString(a.Value(got)))
	assert.Zero(t, b.Total())
}

func TestCountsAndReset(t *testing.T) {
	ic := intercept.New()
	m := NewMeter(ic, "t")
	x := m.Wrap(value.Number(1))
	for i := 0; i < 3; i++ {
		_, err := ic.Binary(op.Add, x, value.Number(1))
		require.NoError(t, err)
	}
	_, err := ic.Unary(op.BitwiseNot, x)
	require.NoError(t, err)

	assert.Equal(t, map[op.Operator]int{op.Add: 3, op.BitwiseNot: 1}, m.Counts())
	assert.Equal(t, []op.Operator{op.Add, op.BitwiseNot}, m.Operators())

	m.Reset()
	assert.Zero(t, m.Total())
	assert.Empty(t, m.Counts())
}
