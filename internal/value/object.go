package value

// CallFunc is the call behaviour of a function object.
type CallFunc func(this Value, args []Value) (Value, error)

// Object classes assigned by the constructors in this file.
const (
	ClassObject   = "Object"
	ClassFunction = "Function"
	ClassBox      = "Box"
)

// Object is a mutable property bag with an optional prototype.
// Property order is insertion order.
type Object struct {
	Class string
	Proto *Object

	props map[string]Value
	keys  []string
	call  CallFunc
	boxed *Value
}

// NewObject creates an empty object with the given prototype (may be nil).
func NewObject(proto *Object) *Object {
	return &Object{
		Class: ClassObject,
		Proto: proto,
		props: make(map[string]Value),
	}
}

// NewFunction creates a callable object with a fresh prototype object stored
// under "prototype", so that instances created with NewInstance satisfy
// instanceof against it.
func NewFunction(name string, fn CallFunc) *Object {
	f := NewObject(nil)
	f.Class = ClassFunction
	f.call = fn
	f.Set("name", String(name))
	f.Set("prototype", ObjectValue(NewObject(nil)))
	return f
}

// NewInstance creates an object whose prototype is ctor's "prototype"
// property. Returns a plain object if ctor has no object prototype.
func NewInstance(ctor *Object) *Object {
	proto := ctor.Get("prototype").AsObject()
	return NewObject(proto)
}

// NewBox creates a Box around a primitive value.
func NewBox(v Value) *Object {
	inner := v
	return &Object{
		Class: ClassBox,
		props: make(map[string]Value),
		boxed: &inner,
	}
}

// FromMap creates an object whose properties are set from m in key order.
func FromMap(keys []string, m map[string]Value) *Object {
	o := NewObject(nil)
	for _, k := range keys {
		o.Set(k, m[k])
	}
	return o
}

// Get returns the property value, walking the prototype chain.
// Missing properties yield Undefined.
func (o *Object) Get(key string) Value {
	for cur := o; cur != nil; cur = cur.Proto {
		if v, ok := cur.props[key]; ok {
			return v
		}
	}
	return Undefined
}

// Set stores an own property.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.props[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.props[key] = v
}

// HasOwn reports whether key is an own property.
func (o *Object) HasOwn(key string) bool {
	_, ok := o.props[key]
	return ok
}

// Has reports whether key is present on o or its prototype chain.
func (o *Object) Has(key string) bool {
	for cur := o; cur != nil; cur = cur.Proto {
		if cur.HasOwn(key) {
			return true
		}
	}
	return false
}

// Keys returns own property keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// IsCallable reports whether the object has call behaviour.
func (o *Object) IsCallable() bool {
	return o.call != nil
}

// Call invokes the object's call behaviour.
func (o *Object) Call(this Value, args ...Value) (Value, error) {
	if o.call == nil {
		return Undefined, &CoercionError{Message: "object is not callable"}
	}
	return o.call(this, args)
}

// IsBox reports whether the object is a Box.
func (o *Object) IsBox() bool {
	return o.boxed != nil
}

// Unbox returns the primitive held by a Box.
func (o *Object) Unbox() (Value, bool) {
	if o.boxed == nil {
		return Undefined, false
	}
	return *o.boxed, true
}

// InstanceOf reports whether ctor's "prototype" appears on o's prototype chain.
func (o *Object) InstanceOf(ctor *Object) bool {
	proto := ctor.Get("prototype").AsObject()
	if proto == nil {
		return false
	}
	for cur := o.Proto; cur != nil; cur = cur.Proto {
		if cur == proto {
			return true
		}
	}
	return false
}

// Unbox returns the primitive behind a boxed object value, or v unchanged.
func Unbox(v Value) Value {
	if o := v.AsObject(); o != nil {
		if inner, ok := o.Unbox(); ok {
			return inner
		}
	}
	return v
}

// CoercionError reports a value that could not be converted or used.
type CoercionError struct {
	Message string
}

func (e *CoercionError) Error() string {
	return e.Message
}
