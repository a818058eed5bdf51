// Package symbolic is a handler family that records operators instead of
// evaluating them.
//
// Every operator applied to a symbolic value yields a new symbolic value
// whose expression tree describes the computation. Branches evaluate both
// arms and produce a conditional expression.
package symbolic

import (
	"strings"

	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/value"
)

// Expr is a node of a symbolic expression tree.
type Expr interface {
	// String renders the expression with full parenthesization.
	String() string
	expr()
}

// Var is a free variable.
type Var struct {
	Name string
}

// Const is a value that entered the computation from outside the family.
type Const struct {
	Value value.Value
}

// UnaryExpr applies a unary operator.
type UnaryExpr struct {
	Op op.Operator
	X  Expr
}

// BinaryExpr applies a binary operator.
type BinaryExpr struct {
	Op   op.Operator
	L, R Expr
}

// CondExpr selects Then or Else on the truthiness of Cond.
type CondExpr struct {
	Cond, Then, Else Expr
}

// AssignExpr stores Right under Left in Ctx. A nullish Ctx is a plain
// variable assignment.
type AssignExpr struct {
	Ctx, Left, Right Expr
}

func (Var) expr()        {}
func (Const) expr()      {}
func (UnaryExpr) expr()  {}
func (BinaryExpr) expr() {}
func (CondExpr) expr()   {}
func (AssignExpr) expr() {}

func (e Var) String() string   { return e.Name }
func (e Const) String() string { return value.Inspect(e.Value) }

func (e UnaryExpr) String() string {
	switch e.Op {
	case op.TypeOf, op.Void:
		return "(" + string(e.Op) + " " + e.X.String() + ")"
	default:
		return "(" + string(e.Op) + e.X.String() + ")"
	}
}

func (e BinaryExpr) String() string {
	return "(" + e.L.String() + " " + string(e.Op) + " " + e.R.String() + ")"
}

func (e CondExpr) String() string {
	return "(" + e.Cond.String() + " ? " + e.Then.String() + " : " + e.Else.String() + ")"
}

func (e AssignExpr) String() string {
	var b strings.Builder
	b.WriteByte('(')
	if c, ok := e.Ctx.(Const); !ok || !c.Value.IsNullish() {
		b.WriteString(e.Ctx.String())
		b.WriteByte('[')
		b.WriteString(e.Left.String())
		b.WriteByte(']')
	} else {
		b.WriteString(e.Left.String())
	}
	b.WriteString(" = ")
	b.WriteString(e.Right.String())
	b.WriteByte(')')
	return b.String()
}

// Vars returns the distinct variable names in e, in first-occurrence order.
func Vars(e Expr) []string {
	seen := make(map[string]bool)
	var names []string
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case Var:
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case UnaryExpr:
			walk(n.X)
		case BinaryExpr:
			walk(n.L)
			walk(n.R)
		case CondExpr:
			walk(n.Cond)
			walk(n.Then)
			walk(n.Else)
		case AssignExpr:
			walk(n.Ctx)
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(e)
	return names
}
