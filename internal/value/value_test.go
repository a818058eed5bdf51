package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsUndefined(t *testing.T) {
	var v Value
	assert.True(t, v.IsUndefined())
	assert.Equal(t, KindUndefined, v.Kind())
	assert.True(t, StrictEquals(v, Undefined))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "wrapped", KindWrapped.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestObjectTypePredicates(t *testing.T) {
	obj := ObjectValue(NewObject(nil))
	wrapped := Wrapped(NewRef(1, 1))

	assert.True(t, obj.IsObject())
	assert.True(t, wrapped.IsObject())
	assert.False(t, Null.IsObject())
	assert.False(t, String("x").IsObject())
	assert.True(t, Null.IsNullish())
	assert.True(t, Undefined.IsNullish())
	assert.False(t, Int(0).IsNullish())
}

func TestNilConstructorsYieldNull(t *testing.T) {
	assert.True(t, ObjectValue(nil).IsNull())
	assert.True(t, Wrapped(nil).IsNull())
}

func TestAccessors(t *testing.T) {
	n, ok := Int(7).AsNumber()
	require.True(t, ok)
	assert.Equal(t, 7.0, n)

	_, ok = String("7").AsNumber()
	assert.False(t, ok)

	s, ok := String("hi").AsString()
	require.True(t, ok)
	assert.Equal(t, "hi", s)

	b, ok := True.AsBool()
	require.True(t, ok)
	assert.True(t, b)

	assert.Nil(t, Int(1).AsObject())
	assert.Nil(t, Int(1).Ref())

	r := NewRef(3, 9)
	assert.Same(t, r, Wrapped(r).Ref())
	assert.Equal(t, uint32(3), r.Slot())
	assert.Equal(t, uint32(9), r.Gen())
}

func TestObjectProperties(t *testing.T) {
	proto := NewObject(nil)
	proto.Set("inherited", Int(1))

	o := NewObject(proto)
	o.Set("b", Int(2))
	o.Set("a", Int(3))
	o.Set("b", Int(4))

	assert.Equal(t, []string{"b", "a"}, o.Keys())
	assert.True(t, StrictEquals(Int(4), o.Get("b")))
	assert.True(t, StrictEquals(Int(1), o.Get("inherited")))
	assert.True(t, o.Get("missing").IsUndefined())

	assert.True(t, o.Has("inherited"))
	assert.False(t, o.HasOwn("inherited"))
	assert.False(t, o.Has("missing"))
}

func TestFunctionAndInstanceOf(t *testing.T) {
	called := 0
	ctor := NewFunction("Point", func(this Value, args []Value) (Value, error) {
		called++
		return Undefined, nil
	})
	other := NewFunction("Other", nil)

	inst := NewInstance(ctor)
	assert.True(t, inst.InstanceOf(ctor))
	assert.False(t, NewObject(nil).InstanceOf(ctor))
	assert.False(t, other.IsCallable())

	_, err := ctor.Call(Undefined)
	require.NoError(t, err)
	assert.Equal(t, 1, called)

	_, err = NewObject(nil).Call(Undefined)
	require.Error(t, err)
}

func TestBox(t *testing.T) {
	for _, v := range []Value{Undefined, Null, Int(0), String("s"), True} {
		box := NewBox(v)
		assert.True(t, box.IsBox())
		inner, ok := box.Unbox()
		require.True(t, ok)
		assert.True(t, StrictEquals(v, inner), "box of %s", Inspect(v))
		assert.True(t, StrictEquals(v, Unbox(ObjectValue(box))))
	}

	_, ok := NewObject(nil).Unbox()
	assert.False(t, ok)
	assert.True(t, StrictEquals(Int(5), Unbox(Int(5))))
}

func TestFromMap(t *testing.T) {
	o := FromMap([]string{"z", "a"}, map[string]Value{"a": Int(1), "z": Int(2)})
	assert.Equal(t, []string{"z", "a"}, o.Keys())
}

func TestNaNConstant(t *testing.T) {
	n, _ := NaN.AsNumber()
	assert.True(t, math.IsNaN(n))
}
