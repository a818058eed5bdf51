package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vvalues/internal/intercept"
	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/value"
)

func TestOperatorsBuildExpressions(t *testing.T) {
	ic := intercept.New()
	f := NewFamily(ic, "t")
	x, y := f.Var("x"), f.Var("y")

	sum, err := ic.Binary(op.Add, x, y)
	require.NoError(t, err)
	prod, err := ic.Binary(op.Mul, value.Number(2), sum)
	require.NoError(t, err)
	neg, err := ic.Unary(op.Negate, prod)
	require.NoError(t, err)

	assert.True(t, ic.IsWrapped(neg))
	assert.Equal(t, "(-(2 * (x + y)))", f.Describe(neg))
}

func TestTypeofRendersWithSpace(t *testing.T) {
	ic := intercept.New()
	f := NewFamily(ic, "t")

	got, err := ic.Unary(op.TypeOf, f.Var("x"))
	require.NoError(t, err)
	assert.Equal(t, "(typeof x)", f.Describe(got))
}

func TestForeignWrappersBecomeConstants(t *testing.T) {
	ic := intercept.New()
	a, b := NewFamily(ic, "a"), NewFamily(ic, "b")
	x, y := a.Var("x"), b.Var("y")

	got, err := ic.Binary(op.Sub, x, y)
	require.NoError(t, err)

	e, ok := a.Expr(got)
	require.True(t, ok)
	bin := e.(BinaryExpr)
	assert.Equal(t, Var{Name: "x"}, bin.L)
	_, isConst := bin.R.(Const)
	assert.True(t, isConst)

	_, ok = b.Expr(got)
	assert.False(t, ok)
}

func TestBranchExploresBothArms(t *testing.T) {
	ic := intercept.New()
	f := NewFamily(ic, "t")
	c := f.Var("c")

	var order []string
	got, err := ic.Branch(c, value.Undefined,
		func() (value.Value, error) {
			order = append(order, "then")
			return ic.Binary(op.Add, f.Var("a"), value.Number(1))
		},
		func() (value.Value, error) {
			order = append(order, "else")
			return value.String("no"), nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"then", "else"}, order)
	assert.Equal(t, `(c ? (a + 1) : "no")`, f.Describe(got))
}

func TestAssignRunsNativeAndRecords(t *testing.T) {
	ic := intercept.New()
	f := NewFamily(ic, "t")
	obj := value.NewObject(nil)
	x := f.Var("x")

	got, err := ic.Assign(value.Null, value.String("k"), x, func() (value.Value, error) {
		obj.Set("k", x)
		return x, nil
	})
	require.NoError(t, err)
	assert.Equal(t, `("k" = x)`, f.Describe(got))
	assert.True(t, value.StrictEquals(x, obj.Get("k")))

	got, err = ic.Assign(value.ObjectValue(obj), value.String("k"), x, nil)
	require.NoError(t, err)
	rendered := f.Describe(got)
	assert.Contains(t, rendered, "({k: wrapped#")
	assert.Contains(t, rendered, `}["k"] = x)`)
}

func TestTargetIsRenderedExpression(t *testing.T) {
	ic := intercept.New()
	f := NewFamily(ic, "t")
	sum, err := ic.Binary(op.Add, f.Var("x"), value.Number(1))
	require.NoError(t, err)

	target, ok := ic.UnwrapTarget(sum, f.key)
	require.True(t, ok)
	assert.Equal(t, "(x + 1)", value.ToString(target))
}

func TestDescribePlainValue(t *testing.T) {
	f := NewFamily(intercept.New(), "t")
	assert.Equal(t, `"s"`, f.Describe(value.String("s")))
	assert.Equal(t, "3", f.Describe(value.Number(3)))
}

func TestRoundTripThroughEval(t *testing.T) {
	ic := intercept.New()
	f := NewFamily(ic, "t")
	x, y := f.Var("x"), f.Var("y")

	lt, err := ic.Binary(op.Lt, x, y)
	require.NoError(t, err)
	got, err := ic.Branch(lt, value.Undefined,
		func() (value.Value, error) { return ic.Binary(op.Sub, y, x) },
		func() (value.Value, error) { return ic.Binary(op.Sub, x, y) })
	require.NoError(t, err)

	e, ok := f.Expr(got)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, Vars(e))

	res, err := Eval(e, map[string]value.Value{"x": value.Number(3), "y": value.Number(10)})
	require.NoError(t, err)
	assert.True(t, value.StrictEquals(value.Number(7), res))

	res, err = Eval(e, map[string]value.Value{"x": value.Number(10), "y": value.Number(3)})
	require.NoError(t, err)
	assert.True(t, value.StrictEquals(value.Number(7), res))
}
