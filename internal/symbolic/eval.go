package symbolic

import (
	"errors"
	"fmt"

	"github.com/roach88/vvalues/internal/native"
	"github.com/roach88/vvalues/internal/value"
)

// ErrUnbound is returned by Eval when a variable has no binding.
var ErrUnbound = errors.New("unbound variable")

// Eval computes e natively with variables bound from env.
//
// Assignments evaluate to their right-hand side and do not modify env.
// Conditionals evaluate only the selected arm.
func Eval(e Expr, env map[string]value.Value) (value.Value, error) {
	switch n := e.(type) {
	case Var:
		v, ok := env[n.Name]
		if !ok {
			return value.Undefined, fmt.Errorf("%w: %s", ErrUnbound, n.Name)
		}
		return v, nil
	case Const:
		return n.Value, nil
	case UnaryExpr:
		x, err := Eval(n.X, env)
		if err != nil {
			return value.Undefined, err
		}
		return native.Unary(n.Op, x)
	case BinaryExpr:
		l, err := Eval(n.L, env)
		if err != nil {
			return value.Undefined, err
		}
		r, err := Eval(n.R, env)
		if err != nil {
			return value.Undefined, err
		}
		return native.Binary(n.Op, l, r)
	case CondExpr:
		c, err := Eval(n.Cond, env)
		if err != nil {
			return value.Undefined, err
		}
		if value.ToBoolean(c) {
			return Eval(n.Then, env)
		}
		return Eval(n.Else, env)
	case AssignExpr:
		return Eval(n.Right, env)
	}
	return value.Undefined, fmt.Errorf("cannot evaluate %T", e)
}
