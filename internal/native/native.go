// Package native implements the host's built-in operator semantics.
//
// The interception engine falls back to this package whenever no operand at
// an operator site is wrapped. Semantics follow JavaScript: numbers are
// float64, bitwise operators work on int32, shift counts are masked to five
// bits, and relational comparisons involving NaN are false.
//
// Operands that are objects are coerced through value.ToPrimitive, so a Box
// behaves like the primitive it holds.
package native

import (
	"math"

	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/value"
)

// Unary applies a unary operator natively.
// Returns an UNKNOWN_OPERATOR error for symbols outside op.UnaryOperators.
func Unary(o op.Operator, v value.Value) (value.Value, error) {
	switch o {
	case op.Negate:
		return value.Number(-value.ToNumber(v)), nil
	case op.Plusify:
		return value.Number(value.ToNumber(v)), nil
	case op.Increment:
		return value.Number(value.ToNumber(v) + 1), nil
	case op.Decrement:
		return value.Number(value.ToNumber(v) - 1), nil
	case op.LogicalNot:
		return value.Bool(!value.ToBoolean(v)), nil
	case op.BitwiseNot:
		return value.Number(float64(^value.ToInt32(v))), nil
	case op.TypeOf:
		return value.String(value.TypeOf(v)), nil
	case op.Void:
		return value.Undefined, nil
	}
	return value.Undefined, unknownOperator(o, "unary")
}

// Binary applies a binary operator natively.
// Both operands are already evaluated, so && and || select an operand rather
// than skipping evaluation.
func Binary(o op.Operator, l, r value.Value) (value.Value, error) {
	switch o {
	case op.Add:
		return add(l, r), nil
	case op.Sub:
		return value.Number(value.ToNumber(l) - value.ToNumber(r)), nil
	case op.Mul:
		return value.Number(value.ToNumber(l) * value.ToNumber(r)), nil
	case op.Div:
		return value.Number(value.ToNumber(l) / value.ToNumber(r)), nil
	case op.Mod:
		return value.Number(math.Mod(value.ToNumber(l), value.ToNumber(r))), nil

	case op.Shl:
		return value.Number(float64(value.ToInt32(l) << shiftCount(r))), nil
	case op.Shr:
		return value.Number(float64(value.ToInt32(l) >> shiftCount(r))), nil
	case op.UShr:
		return value.Number(float64(value.ToUint32(l) >> shiftCount(r))), nil

	case op.Lt:
		return value.Bool(less(l, r, false)), nil
	case op.Gt:
		return value.Bool(less(r, l, false)), nil
	case op.Le:
		return value.Bool(less(l, r, true)), nil
	case op.Ge:
		return value.Bool(less(r, l, true)), nil

	case op.In:
		return in(l, r)
	case op.InstanceOf:
		return instanceOf(l, r)

	case op.Eq:
		return value.Bool(value.LooseEquals(l, r)), nil
	case op.Ne:
		return value.Bool(!value.LooseEquals(l, r)), nil
	case op.StrictEq:
		return value.Bool(value.StrictEquals(l, r)), nil
	case op.StrictNe:
		return value.Bool(!value.StrictEquals(l, r)), nil

	case op.BitAnd:
		return value.Number(float64(value.ToInt32(l) & value.ToInt32(r))), nil
	case op.BitXor:
		return value.Number(float64(value.ToInt32(l) ^ value.ToInt32(r))), nil
	case op.BitOr:
		return value.Number(float64(value.ToInt32(l) | value.ToInt32(r))), nil

	case op.And:
		if !value.ToBoolean(l) {
			return l, nil
		}
		return r, nil
	case op.Or:
		if value.ToBoolean(l) {
			return l, nil
		}
		return r, nil
	}
	return value.Undefined, unknownOperator(o, "binary")
}

func shiftCount(r value.Value) uint32 {
	return value.ToUint32(r) & 0x1f
}

// add concatenates when either primitive is a string, otherwise sums.
func add(l, r value.Value) value.Value {
	lp, rp := value.ToPrimitive(l), value.ToPrimitive(r)
	_, ls := lp.AsString()
	_, rs := rp.AsString()
	if ls || rs {
		return value.String(value.ToString(lp) + value.ToString(rp))
	}
	return value.Number(value.ToNumber(lp) + value.ToNumber(rp))
}

// less computes a < b, or a <= b as !(b < a) when orEqual is set.
// Any NaN makes the result false either way.
func less(a, b value.Value, orEqual bool) bool {
	ap, bp := value.ToPrimitive(a), value.ToPrimitive(b)
	as, aok := ap.AsString()
	bs, bok := bp.AsString()
	if aok && bok {
		c := value.CompareStrings(as, bs)
		if orEqual {
			return c <= 0
		}
		return c < 0
	}
	an, bn := value.ToNumber(ap), value.ToNumber(bp)
	if math.IsNaN(an) || math.IsNaN(bn) {
		return false
	}
	if orEqual {
		return !(bn < an)
	}
	return an < bn
}

func in(key, obj value.Value) (value.Value, error) {
	o := obj.AsObject()
	if o == nil {
		return value.Undefined, typeError(op.In, "cannot use 'in' to search for %s in %s",
			value.Inspect(key), value.Inspect(obj))
	}
	return value.Bool(o.Has(value.ToString(key))), nil
}

func instanceOf(v, ctor value.Value) (value.Value, error) {
	c := ctor.AsObject()
	if c == nil || !c.IsCallable() {
		return value.Undefined, typeError(op.InstanceOf, "right-hand side of 'instanceof' is not callable: %s",
			value.Inspect(ctor))
	}
	o := v.AsObject()
	if o == nil {
		return value.False, nil
	}
	return value.Bool(o.InstanceOf(c)), nil
}
