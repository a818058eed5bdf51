package intercept

import (
	"io"
	"log/slog"
	"reflect"

	"github.com/roach88/vvalues/internal/value"
)

// Interceptor owns an association table and a context stack.
//
// Thread-safety model:
//   - Dispatch, wrapping and the context stack: one goroutine only
//   - Len: safe from any goroutine
//
// INVARIANTS:
//   - Exactly one record per live wrapper
//   - A record never changes after Wrap
//   - Only wrapped values are ever on the context stack
type Interceptor struct {
	table       *table
	stack       []value.Value
	logger      *slog.Logger
	observer    Observer
	autoReclaim bool
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithLogger sets the logger used for dispatch diagnostics.
// Routing decisions are logged at Debug.
func WithLogger(logger *slog.Logger) Option {
	return func(ic *Interceptor) {
		if logger != nil {
			ic.logger = logger
		}
	}
}

// WithObserver registers an observer that sees every dispatch.
func WithObserver(o Observer) Option {
	return func(ic *Interceptor) {
		ic.observer = o
	}
}

// WithoutAutoReclaim disables runtime cleanups. Records then live until
// Release is called or the Interceptor itself is dropped.
func WithoutAutoReclaim() Option {
	return func(ic *Interceptor) {
		ic.autoReclaim = false
	}
}

// New creates an Interceptor with an empty table and context stack.
func New(opts ...Option) *Interceptor {
	ic := &Interceptor{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		autoReclaim: true,
	}
	for _, opt := range opts {
		opt(ic)
	}
	ic.table = newTable(ic.autoReclaim)
	return ic
}

// Key is an unforgeable unwrap key. Only the holder of the pointer can
// unwrap values wrapped with it.
type Key struct {
	label string
}

// NewKey returns a fresh key. The label is for diagnostics only; two keys
// with the same label are still different keys.
func NewKey(label string) *Key {
	return &Key{label: label}
}

func (k *Key) String() string { return k.label }

// Wrap associates v with handler h under key and returns the wrapper.
//
// Primitives (including undefined and null) are boxed first so the target
// always has object identity. Wrap never fails.
func (ic *Interceptor) Wrap(v value.Value, h Handler, key any) value.Value {
	target := v
	boxed := !v.IsObject()
	if boxed {
		target = value.ObjectValue(value.NewBox(v))
	}
	rec := &record{
		handler: h,
		key:     key,
		target:  target,
		caps:    CapabilitiesOf(h),
	}
	ref := ic.table.insert(rec)
	ic.logger.Debug("wrapped value",
		"slot", ref.Slot(),
		"gen", ref.Gen(),
		"boxed", boxed,
		"capabilities", rec.caps.String())
	return value.Wrapped(ref)
}

// IsWrapped reports whether v is a live wrapper issued by this Interceptor.
func (ic *Interceptor) IsWrapped(v value.Value) bool {
	_, ok := ic.table.lookup(v)
	return ok
}

// Unwrap returns the handler of v if v is wrapped under key, else nil.
func (ic *Interceptor) Unwrap(v value.Value, key any) Handler {
	rec, ok := ic.table.lookup(v)
	if !ok || !sameKey(rec.key, key) {
		return nil
	}
	return rec.handler
}

// Unproxy is an alias for Unwrap.
func (ic *Interceptor) Unproxy(v value.Value, key any) Handler {
	return ic.Unwrap(v, key)
}

// UnwrapTarget returns the target of v if v is wrapped under key.
// For wrapped primitives the target is the Box created by Wrap.
func (ic *Interceptor) UnwrapTarget(v value.Value, key any) (value.Value, bool) {
	rec, ok := ic.table.lookup(v)
	if !ok || !sameKey(rec.key, key) {
		return value.Undefined, false
	}
	return rec.target, true
}

// Release drops the record for w. Afterwards w behaves as a plain object.
// Returns false if w was not a live wrapper.
func (ic *Interceptor) Release(w value.Value) bool {
	ref := w.Ref()
	if ref == nil {
		return false
	}
	ok := ic.table.release(ref)
	if ok {
		ic.logger.Debug("released wrapper", "slot", ref.Slot(), "gen", ref.Gen())
	}
	return ok
}

// Len returns the number of live records.
func (ic *Interceptor) Len() int {
	return ic.table.len()
}

// sameKey is strict identity. Keys of incomparable types never match,
// including comparable structs whose interface fields hold incomparable
// values at run time.
func sameKey(stored, presented any) (same bool) {
	if stored == nil || presented == nil {
		return stored == nil && presented == nil
	}
	ts := reflect.TypeOf(stored)
	if ts != reflect.TypeOf(presented) || !ts.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return stored == presented
}
