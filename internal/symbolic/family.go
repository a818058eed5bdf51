package symbolic

import (
	"github.com/roach88/vvalues/internal/intercept"
	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/value"
)

// Family is a set of symbolic values sharing one unwrap key. Operands from
// the same family are spliced into the tree; anything else becomes a Const.
type Family struct {
	ic  *intercept.Interceptor
	key *intercept.Key
}

// NewFamily creates a family on ic.
func NewFamily(ic *intercept.Interceptor, name string) *Family {
	return &Family{ic: ic, key: intercept.NewKey("symbolic:" + name)}
}

// Key returns the unwrap key shared by the family's values.
func (f *Family) Key() *intercept.Key { return f.key }

// Var returns a fresh symbolic variable.
func (f *Family) Var(name string) value.Value {
	return f.wrap(Var{Name: name})
}

// Lift wraps an arbitrary expression as a symbolic value.
func (f *Family) Lift(e Expr) value.Value {
	return f.wrap(e)
}

// Expr returns the expression behind v if v belongs to this family.
func (f *Family) Expr(v value.Value) (Expr, bool) {
	n, ok := f.ic.Unwrap(v, f.key).(*node)
	if !ok {
		return nil, false
	}
	return n.expr, true
}

// Describe renders v as an expression if it belongs to this family,
// otherwise as a plain value.
func (f *Family) Describe(v value.Value) string {
	return f.lift(v).String()
}

func (f *Family) lift(v value.Value) Expr {
	if e, ok := f.Expr(v); ok {
		return e
	}
	return Const{Value: v}
}

// wrap targets the rendered expression so native code that unwraps the
// target sees something readable.
func (f *Family) wrap(e Expr) value.Value {
	return f.ic.Wrap(value.String(e.String()), &node{family: f, expr: e}, f.key)
}

// node is the handler behind one symbolic value.
type node struct {
	family *Family
	expr   Expr
}

func (n *node) Unary(_ value.Value, o op.Operator, _ value.Value) (value.Value, error) {
	return n.family.wrap(UnaryExpr{Op: o, X: n.expr}), nil
}

func (n *node) Left(_ value.Value, o op.Operator, right value.Value) (value.Value, error) {
	return n.family.wrap(BinaryExpr{Op: o, L: n.expr, R: n.family.lift(right)}), nil
}

func (n *node) Right(_ value.Value, o op.Operator, left value.Value) (value.Value, error) {
	return n.family.wrap(BinaryExpr{Op: o, L: n.family.lift(left), R: n.expr}), nil
}

// Assign performs the host assignment and records it.
func (n *node) Assign(ctx, left, right value.Value, nativeAssign intercept.Thunk) (value.Value, error) {
	if nativeAssign != nil {
		if _, err := nativeAssign(); err != nil {
			return value.Undefined, err
		}
	}
	f := n.family
	return f.wrap(AssignExpr{Ctx: f.lift(ctx), Left: f.lift(left), Right: f.lift(right)}), nil
}

// Branch explores both arms, then before else.
func (n *node) Branch(_, _ value.Value, then, els intercept.Thunk) (value.Value, error) {
	a, err := force(then)
	if err != nil {
		return value.Undefined, err
	}
	b, err := force(els)
	if err != nil {
		return value.Undefined, err
	}
	f := n.family
	return f.wrap(CondExpr{Cond: n.expr, Then: f.lift(a), Else: f.lift(b)}), nil
}

func force(t intercept.Thunk) (value.Value, error) {
	if t == nil {
		return value.Undefined, nil
	}
	return t()
}
