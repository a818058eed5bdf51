// Package op names the operator symbols that reach the dispatchers.
//
// Symbols are the source-level spellings ("+", "typeof", ">>>"). Some
// spellings are both unary and binary ("+", "-"); the dispatcher being
// called decides which meaning applies.
package op

// Operator is an operator symbol as written at the call site.
type Operator string

// Unary operators.
const (
	Negate     Operator = "-"
	Plusify    Operator = "+"
	Increment  Operator = "++"
	Decrement  Operator = "--"
	LogicalNot Operator = "!"
	BitwiseNot Operator = "~"
	TypeOf     Operator = "typeof"
	Void       Operator = "void"
)

// Binary operators.
const (
	Mul Operator = "*"
	Div Operator = "/"
	Mod Operator = "%"
	Add Operator = "+"
	Sub Operator = "-"

	Shl  Operator = "<<"
	Shr  Operator = ">>"
	UShr Operator = ">>>"

	Lt Operator = "<"
	Le Operator = "<="
	Gt Operator = ">"
	Ge Operator = ">="

	In         Operator = "in"
	InstanceOf Operator = "instanceof"

	Eq       Operator = "=="
	Ne       Operator = "!="
	StrictEq Operator = "==="
	StrictNe Operator = "!=="

	BitAnd Operator = "&"
	BitXor Operator = "^"
	BitOr  Operator = "|"

	And Operator = "&&"
	Or  Operator = "||"
)

// Site symbols. These label assignment and branch sites in traces; they are
// not dispatchable operators.
const (
	Assign      Operator = "="
	Conditional Operator = "?:"
)

var unaryOps = []Operator{
	Negate, Plusify, Increment, Decrement, LogicalNot, BitwiseNot, TypeOf, Void,
}

var binaryOps = []Operator{
	Mul, Div, Mod, Add, Sub,
	Shl, Shr, UShr,
	Lt, Le, Gt, Ge,
	In, InstanceOf,
	Eq, Ne, StrictEq, StrictNe,
	BitAnd, BitXor, BitOr,
	And, Or,
}

var (
	unarySet  = toSet(unaryOps)
	binarySet = toSet(binaryOps)
)

func toSet(ops []Operator) map[Operator]struct{} {
	m := make(map[Operator]struct{}, len(ops))
	for _, o := range ops {
		m[o] = struct{}{}
	}
	return m
}

// IsUnary reports whether o is in the unary operator set.
func IsUnary(o Operator) bool {
	_, ok := unarySet[o]
	return ok
}

// IsBinary reports whether o is in the binary operator set.
func IsBinary(o Operator) bool {
	_, ok := binarySet[o]
	return ok
}

// UnaryOperators returns the unary set in declaration order.
func UnaryOperators() []Operator {
	return append([]Operator(nil), unaryOps...)
}

// BinaryOperators returns the binary set in declaration order.
func BinaryOperators() []Operator {
	return append([]Operator(nil), binaryOps...)
}

// IsLogical reports whether o is a short-circuit operator.
func IsLogical(o Operator) bool {
	return o == And || o == Or
}

func (o Operator) String() string { return string(o) }
