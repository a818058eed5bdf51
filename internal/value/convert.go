package value

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
)

const twoTo32 = 4294967296.0

// ToBoolean converts a value to its truthiness.
// Objects and wrappers are always truthy, including boxes of falsy values.
func ToBoolean(v Value) bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	case KindString:
		return v.s != ""
	default:
		return true
	}
}

// ToPrimitive converts objects to a primitive. Boxes yield their contents;
// other objects render to a string. Primitives are returned unchanged.
func ToPrimitive(v Value) Value {
	switch v.kind {
	case KindObject:
		if inner, ok := v.obj.Unbox(); ok {
			return inner
		}
		if v.obj.IsCallable() {
			name, _ := v.obj.Get("name").AsString()
			return String("function " + name + "() { [native code] }")
		}
		return String("[object Object]")
	case KindWrapped:
		return String("[object Object]")
	default:
		return v
	}
}

// ToNumber converts a value to a float64 using JS rules.
func ToNumber(v Value) float64 {
	switch v.kind {
	case KindUndefined:
		return math.NaN()
	case KindNull:
		return 0
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindNumber:
		return v.n
	case KindString:
		return stringToNumber(v.s)
	default:
		return ToNumber(ToPrimitive(v))
	}
}

// stringToNumber parses numeric strings the way JS Number() does.
// Go-only syntax (underscores, "inf", "nan", hex floats) is rejected.
func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	switch t {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(t) > 2 && t[0] == '0' {
		base := 0
		switch t[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(t[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}
	lower := strings.ToLower(t)
	if strings.ContainsAny(lower, "_xpin") {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// ToUint32 converts a value to an unsigned 32-bit integer (modulo 2^32).
func ToUint32(v Value) uint32 {
	n := ToNumber(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	n = math.Mod(math.Trunc(n), twoTo32)
	if n < 0 {
		n += twoTo32
	}
	return uint32(n)
}

// ToInt32 converts a value to a signed 32-bit integer (modulo 2^32).
func ToInt32(v Value) int32 {
	return int32(ToUint32(v))
}

// ToString converts a value to its string form.
func ToString(v Value) string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return FormatNumber(v.n)
	case KindString:
		return v.s
	default:
		return ToString(ToPrimitive(v))
	}
}

// FormatNumber renders a float64 the way JS Number.prototype.toString does
// for the common cases: integers without a fraction, exponent form outside
// [1e-6, 1e21).
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	abs := math.Abs(n)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'e', -1, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

// CompareStrings orders strings by UTF-16 code units, the order JS uses for
// relational comparison. It differs from Go's byte order when a character
// above U+FFFF meets one in U+E000-U+FFFF.
func CompareStrings(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// TypeOf returns the typeof string for a value.
func TypeOf(v Value) string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		if v.obj.IsCallable() {
			return "function"
		}
		return "object"
	default:
		// null and wrappers
		return "object"
	}
}

// StrictEquals implements ===. Objects and wrappers compare by identity.
func StrictEquals(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindObject:
		return a.obj == b.obj
	case KindWrapped:
		return a.ref == b.ref
	}
	return false
}

// LooseEquals implements ==. Two objects compare by identity, even when both
// are boxes. A box against a primitive compares as the primitive it holds,
// including boxed undefined and null.
func LooseEquals(a, b Value) bool {
	if a.IsObject() && b.IsObject() {
		return StrictEquals(a, b)
	}
	a, b = Unbox(a), Unbox(b)
	if a.kind == b.kind {
		return StrictEquals(a, b)
	}
	if a.IsNullish() || b.IsNullish() {
		return a.IsNullish() && b.IsNullish()
	}
	switch {
	case a.kind == KindNumber && b.kind == KindString:
		return a.n == stringToNumber(b.s)
	case a.kind == KindString && b.kind == KindNumber:
		return stringToNumber(a.s) == b.n
	case a.kind == KindBool:
		return LooseEquals(Number(ToNumber(a)), b)
	case b.kind == KindBool:
		return LooseEquals(a, Number(ToNumber(b)))
	case (a.kind == KindNumber || a.kind == KindString) && b.IsObject():
		return LooseEquals(a, ToPrimitive(b))
	case a.IsObject() && (b.kind == KindNumber || b.kind == KindString):
		return LooseEquals(ToPrimitive(a), b)
	}
	return false
}

// maxInspectDepth bounds recursion through nested or cyclic objects.
const maxInspectDepth = 4

// Inspect renders a value for diagnostics and traces. Strings are quoted so
// that "1" and 1 stay distinguishable.
func Inspect(v Value) string {
	var b strings.Builder
	inspect(&b, v, 0)
	return b.String()
}

func inspect(b *strings.Builder, v Value, depth int) {
	switch v.kind {
	case KindString:
		b.WriteString(strconv.Quote(v.s))
	case KindWrapped:
		fmt.Fprintf(b, "wrapped#%d.%d", v.ref.slot, v.ref.gen)
	case KindObject:
		inspectObject(b, v.obj, depth)
	default:
		b.WriteString(ToString(v))
	}
}

func inspectObject(b *strings.Builder, o *Object, depth int) {
	if inner, ok := o.Unbox(); ok {
		b.WriteString("Box(")
		inspect(b, inner, depth+1)
		b.WriteByte(')')
		return
	}
	if o.IsCallable() {
		name, _ := o.Get("name").AsString()
		b.WriteString("function " + name)
		return
	}
	if depth >= maxInspectDepth {
		b.WriteString("{...}")
		return
	}
	b.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		inspect(b, o.props[k], depth+1)
	}
	b.WriteByte('}')
}
