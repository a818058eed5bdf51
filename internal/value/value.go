package value

import (
	"fmt"
	"math"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindObject
	KindWrapped
)

var kindNames = [...]string{
	KindUndefined: "undefined",
	KindNull:      "null",
	KindBool:      "bool",
	KindNumber:    "number",
	KindString:    "string",
	KindObject:    "object",
	KindWrapped:   "wrapped",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a tagged host value. The zero Value is Undefined.
// Values are small and passed by value; Object and Wrapped carry pointers
// whose identity is significant.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	obj  *Object
	ref  *Ref
}

// Undefined and Null are the two nullish values.
var (
	Undefined = Value{}
	Null      = Value{kind: KindNull}
	True      = Value{kind: KindBool, b: true}
	False     = Value{kind: KindBool}
	NaN       = Value{kind: KindNumber, n: math.NaN()}
)

// Bool creates a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number creates a number value.
func Number(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// Int creates a number value from an integer.
func Int(n int64) Value {
	return Value{kind: KindNumber, n: float64(n)}
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// ObjectValue creates an object value. A nil object yields Null.
func ObjectValue(o *Object) Value {
	if o == nil {
		return Null
	}
	return Value{kind: KindObject, obj: o}
}

// Wrapped creates a value from an interception handle. A nil ref yields Null.
func Wrapped(r *Ref) Value {
	if r == nil {
		return Null
	}
	return Value{kind: KindWrapped, ref: r}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is Undefined.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNullish reports whether v is Undefined or Null.
func (v Value) IsNullish() bool { return v.kind == KindUndefined || v.kind == KindNull }

// IsObject reports whether v is of object type (a plain object or a wrapper).
func (v Value) IsObject() bool { return v.kind == KindObject || v.kind == KindWrapped }

// IsPrimitive reports whether v is neither an object nor a wrapper.
func (v Value) IsPrimitive() bool { return !v.IsObject() }

// AsBool returns the boolean payload; ok is false for other kinds.
func (v Value) AsBool() (b bool, ok bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number payload; ok is false for other kinds.
func (v Value) AsNumber() (n float64, ok bool) { return v.n, v.kind == KindNumber }

// AsString returns the string payload; ok is false for other kinds.
func (v Value) AsString() (s string, ok bool) { return v.s, v.kind == KindString }

// AsObject returns the object payload, or nil.
func (v Value) AsObject() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Ref returns the interception handle, or nil.
func (v Value) Ref() *Ref {
	if v.kind != KindWrapped {
		return nil
	}
	return v.ref
}

// String implements fmt.Stringer using Inspect.
func (v Value) String() string {
	return Inspect(v)
}

// Ref is the opaque handle behind a wrapped value.
//
// It carries only the slot coordinates the association table assigned to it.
// A Ref resolves only while the table still holds a weak pointer to this exact
// Ref, so copying the coordinates into a new Ref never grants access.
//
// Refs are padded to 16 bytes so they stay out of the runtime's tiny
// allocator and their cleanups run as soon as they become unreachable.
type Ref struct {
	slot uint32
	gen  uint32
	_    [8]byte
}

// NewRef creates a handle for the given table slot and generation.
func NewRef(slot, gen uint32) *Ref {
	return &Ref{slot: slot, gen: gen}
}

// Slot returns the table slot index.
func (r *Ref) Slot() uint32 { return r.slot }

// Gen returns the slot generation at the time the handle was issued.
func (r *Ref) Gen() uint32 { return r.gen }
