package intercept

import (
	"strings"

	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/value"
)

// Thunk defers evaluation of an expression until a handler asks for it.
type Thunk func() (value.Value, error)

// Handler is whatever a value was wrapped with. Its behaviour comes from the
// capability interfaces it implements.
type Handler interface{}

// UnaryHandler intercepts unary operators applied to a wrapped value.
// self is the wrapper the operator was applied to.
type UnaryHandler interface {
	Unary(target value.Value, o op.Operator, self value.Value) (value.Value, error)
}

// LeftHandler intercepts binary operators whose left operand is wrapped.
type LeftHandler interface {
	Left(target value.Value, o op.Operator, right value.Value) (value.Value, error)
}

// RightHandler intercepts binary operators whose right operand is wrapped
// and whose left operand is not.
type RightHandler interface {
	Right(target value.Value, o op.Operator, left value.Value) (value.Value, error)
}

// AssignHandler intercepts assignment sites. native performs the host's
// assignment when called.
type AssignHandler interface {
	Assign(ctx, left, right value.Value, native Thunk) (value.Value, error)
}

// BranchHandler decides conditional sites. It may call then and els any
// number of times, in any order.
type BranchHandler interface {
	Branch(target, test value.Value, then, els Thunk) (value.Value, error)
}

// Capable lets a handler report its capabilities explicitly instead of
// having them inferred from the interfaces it implements.
type Capable interface {
	Capabilities() Capabilities
}

// Capabilities is the set of operator sites a handler serves.
type Capabilities uint8

const (
	CapUnary Capabilities = 1 << iota
	CapLeft
	CapRight
	CapAssign
	CapBranch

	CapNone Capabilities = 0
	CapAll               = CapUnary | CapLeft | CapRight | CapAssign | CapBranch
)

var capNames = []struct {
	c    Capabilities
	name string
}{
	{CapUnary, "unary"},
	{CapLeft, "left"},
	{CapRight, "right"},
	{CapAssign, "assign"},
	{CapBranch, "branch"},
}

// Has reports whether every capability in want is present.
func (c Capabilities) Has(want Capabilities) bool { return c&want == want }

// String renders the set as "unary|left", or "none".
func (c Capabilities) String() string {
	var parts []string
	for _, n := range capNames {
		if c.Has(n.c) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// CapabilitiesOf resolves the capability set of h.
func CapabilitiesOf(h Handler) Capabilities {
	if c, ok := h.(Capable); ok {
		return c.Capabilities()
	}
	var caps Capabilities
	if _, ok := h.(UnaryHandler); ok {
		caps |= CapUnary
	}
	if _, ok := h.(LeftHandler); ok {
		caps |= CapLeft
	}
	if _, ok := h.(RightHandler); ok {
		caps |= CapRight
	}
	if _, ok := h.(AssignHandler); ok {
		caps |= CapAssign
	}
	if _, ok := h.(BranchHandler); ok {
		caps |= CapBranch
	}
	return caps
}

// Funcs builds a handler from optional functions. A nil field means the
// capability is absent.
type Funcs struct {
	UnaryFunc  func(target value.Value, o op.Operator, self value.Value) (value.Value, error)
	LeftFunc   func(target value.Value, o op.Operator, right value.Value) (value.Value, error)
	RightFunc  func(target value.Value, o op.Operator, left value.Value) (value.Value, error)
	AssignFunc func(ctx, left, right value.Value, native Thunk) (value.Value, error)
	BranchFunc func(target, test value.Value, then, els Thunk) (value.Value, error)
}

func (f *Funcs) Capabilities() Capabilities {
	var caps Capabilities
	if f == nil {
		return caps
	}
	if f.UnaryFunc != nil {
		caps |= CapUnary
	}
	if f.LeftFunc != nil {
		caps |= CapLeft
	}
	if f.RightFunc != nil {
		caps |= CapRight
	}
	if f.AssignFunc != nil {
		caps |= CapAssign
	}
	if f.BranchFunc != nil {
		caps |= CapBranch
	}
	return caps
}

func (f *Funcs) Unary(target value.Value, o op.Operator, self value.Value) (value.Value, error) {
	return f.UnaryFunc(target, o, self)
}

func (f *Funcs) Left(target value.Value, o op.Operator, right value.Value) (value.Value, error) {
	return f.LeftFunc(target, o, right)
}

func (f *Funcs) Right(target value.Value, o op.Operator, left value.Value) (value.Value, error) {
	return f.RightFunc(target, o, left)
}

func (f *Funcs) Assign(ctx, left, right value.Value, native Thunk) (value.Value, error) {
	return f.AssignFunc(ctx, left, right, native)
}

func (f *Funcs) Branch(target, test value.Value, then, els Thunk) (value.Value, error) {
	return f.BranchFunc(target, test, then, els)
}
