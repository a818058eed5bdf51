package intercept

import (
	"bytes"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/value"
)

func TestWrapProducesWrappedValue(t *testing.T) {
	ic := New()
	w := ic.Wrap(value.Number(1), &tagged{}, nil)

	assert.Equal(t, value.KindWrapped, w.Kind())
	assert.True(t, ic.IsWrapped(w))
	assert.Equal(t, "object", value.TypeOf(w))
	assert.Equal(t, 1, ic.Len())
}

func TestIsWrappedRejectsPlainValues(t *testing.T) {
	ic := New()
	plain := []value.Value{
		value.Undefined,
		value.Null,
		value.Number(0),
		value.String("s"),
		value.True,
		value.ObjectValue(value.NewObject(nil)),
	}
	for _, v := range plain {
		assert.False(t, ic.IsWrapped(v), value.Inspect(v))
	}
}

func TestWrapperFromAnotherInterceptorIsNotWrapped(t *testing.T) {
	a, b := New(), New()
	w := a.Wrap(value.Number(1), &tagged{}, nil)
	b.Wrap(value.Number(2), &tagged{}, nil)

	// Same slot coordinates, different Ref.
	assert.False(t, b.IsWrapped(w))
}

func TestForgedRefDoesNotResolve(t *testing.T) {
	ic := New()
	w := ic.Wrap(value.Number(1), &tagged{}, nil)
	ref := w.Ref()

	forged := value.Wrapped(value.NewRef(ref.Slot(), ref.Gen()))
	assert.False(t, ic.IsWrapped(forged))
	assert.True(t, ic.IsWrapped(w))
}

func TestWrapBoxesPrimitives(t *testing.T) {
	key := NewKey("box")
	cases := []value.Value{
		value.Undefined,
		value.Null,
		value.Number(0),
		value.String("s"),
		value.False,
	}
	for _, v := range cases {
		t.Run(value.Inspect(v), func(t *testing.T) {
			ic := New()
			w := ic.Wrap(v, &tagged{}, key)

			target, ok := ic.UnwrapTarget(w, key)
			require.True(t, ok)
			obj := target.AsObject()
			require.NotNil(t, obj)
			assert.True(t, obj.IsBox())
			assert.True(t, value.LooseEquals(target, v))
			assert.True(t, value.StrictEquals(value.Unbox(target), v))
		})
	}
}

func TestWrapKeepsObjectTargets(t *testing.T) {
	ic := New()
	key := NewKey("obj")
	obj := value.ObjectValue(value.NewObject(nil))
	w := ic.Wrap(obj, &tagged{}, key)

	target, ok := ic.UnwrapTarget(w, key)
	require.True(t, ok)
	assert.True(t, value.StrictEquals(obj, target))
}

func TestUnwrapKeyGating(t *testing.T) {
	ic := New()
	h := &tagged{tag: "h"}
	key := NewKey("k")
	w := ic.Wrap(value.Number(1), h, key)

	assert.Same(t, h, ic.Unwrap(w, key))
	assert.Same(t, h, ic.Unproxy(w, key))
	assert.Nil(t, ic.Unwrap(w, NewKey("k")))
	assert.Nil(t, ic.Unwrap(w, nil))
	assert.Nil(t, ic.Unwrap(value.Number(1), key))

	_, ok := ic.UnwrapTarget(w, NewKey("k"))
	assert.False(t, ok)
}

func TestUnwrapWithScalarAndNilKeys(t *testing.T) {
	ic := New()
	h := &tagged{}

	w := ic.Wrap(value.Number(1), h, "secret")
	assert.Same(t, h, ic.Unwrap(w, "secret"))
	assert.Nil(t, ic.Unwrap(w, "other"))

	n := ic.Wrap(value.Number(1), h, nil)
	assert.Same(t, h, ic.Unwrap(n, nil))
	assert.Nil(t, ic.Unwrap(n, "secret"))
}

func TestUnwrapIncomparableKeyNeverMatches(t *testing.T) {
	ic := New()
	key := []int{1}
	w := ic.Wrap(value.Number(1), &tagged{}, key)

	assert.NotPanics(t, func() {
		assert.Nil(t, ic.Unwrap(w, key))
	})
}

type opaqueKey struct{ X any }

func TestUnwrapStructKeyHoldingSliceNeverMatches(t *testing.T) {
	ic := New()
	key := opaqueKey{X: []int{1}}
	w := ic.Wrap(value.Number(1), &tagged{}, key)

	assert.NotPanics(t, func() {
		assert.Nil(t, ic.Unwrap(w, key))
		assert.Nil(t, ic.Unproxy(w, key))
		_, ok := ic.UnwrapTarget(w, key)
		assert.False(t, ok)
	})

	// A comparable payload still matches.
	k2 := opaqueKey{X: "k"}
	w2 := ic.Wrap(value.Number(2), &tagged{}, k2)
	assert.NotNil(t, ic.Unwrap(w2, opaqueKey{X: "k"}))
}

func TestRelease(t *testing.T) {
	ic := New()
	w := ic.Wrap(value.Number(1), &tagged{}, nil)

	assert.True(t, ic.Release(w))
	assert.False(t, ic.IsWrapped(w))
	assert.Equal(t, 0, ic.Len())
	assert.False(t, ic.Release(w))
	assert.False(t, ic.Release(value.Number(1)))

	// A released wrapper is a plain object to native dispatch.
	got, err := ic.Binary(op.Add, w, value.String("!"))
	require.NoError(t, err)
	assert.Equal(t, "[object Object]!", value.ToString(got))
}

func TestReleasedSlotIsReusedWithNewGeneration(t *testing.T) {
	ic := New()
	old := ic.Wrap(value.Number(1), &tagged{}, nil)
	require.True(t, ic.Release(old))

	fresh := ic.Wrap(value.Number(2), &tagged{}, nil)
	assert.Equal(t, old.Ref().Slot(), fresh.Ref().Slot())
	assert.NotEqual(t, old.Ref().Gen(), fresh.Ref().Gen())
	assert.False(t, ic.IsWrapped(old))
	assert.True(t, ic.IsWrapped(fresh))
}

func TestUnreachableWrappersAreReclaimed(t *testing.T) {
	ic := New()
	func() {
		for i := 0; i < 8; i++ {
			ic.Wrap(value.Number(float64(i)), &tagged{}, nil)
		}
	}()
	kept := ic.Wrap(value.Number(99), &tagged{}, nil)

	require.Eventually(t, func() bool {
		runtime.GC()
		return ic.Len() == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.True(t, ic.IsWrapped(kept))
	runtime.KeepAlive(kept)
}

func TestCrossReferencedWrappersStayUntilReleased(t *testing.T) {
	ic := New()
	var a value.Value
	func() {
		oa, ob := value.NewObject(nil), value.NewObject(nil)
		a = ic.Wrap(value.ObjectValue(oa), &tagged{}, nil)
		b := ic.Wrap(value.ObjectValue(ob), &tagged{}, nil)
		oa.Set("peer", b)
		ob.Set("peer", a)
	}()

	// Each record holds its target strongly, and the targets point at each
	// other's wrappers.
	for i := 0; i < 3; i++ {
		runtime.GC()
	}
	assert.Equal(t, 2, ic.Len())

	require.True(t, ic.Release(a))
	a = value.Undefined
	require.Eventually(t, func() bool {
		runtime.GC()
		return ic.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWithoutAutoReclaimKeepsRecords(t *testing.T) {
	ic := New(WithoutAutoReclaim())
	func() {
		ic.Wrap(value.Number(1), &tagged{}, nil)
	}()
	runtime.GC()
	runtime.GC()
	assert.Equal(t, 1, ic.Len())
}

func TestWithLoggerReceivesDispatchRoutes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ic := New(WithLogger(logger))

	w := ic.Wrap(value.Number(1), &tagged{}, nil)
	_, err := ic.Binary(op.Add, value.Number(1), w)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "wrapped value")
	assert.Contains(t, out, "route=right")
	assert.Contains(t, out, "operator=+")
}
