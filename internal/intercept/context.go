package intercept

import "github.com/roach88/vvalues/internal/value"

// PushContext pushes x onto the context stack if it is wrapped.
// Unwrapped values are ignored and false is returned.
func (ic *Interceptor) PushContext(x value.Value) bool {
	if !ic.IsWrapped(x) {
		return false
	}
	ic.stack = append(ic.stack, x)
	return true
}

// PopContext removes and returns the top of the context stack.
// An empty stack yields (Undefined, false).
func (ic *Interceptor) PopContext() (value.Value, bool) {
	n := len(ic.stack)
	if n == 0 {
		return value.Undefined, false
	}
	top := ic.stack[n-1]
	ic.truncate(n - 1)
	return top, true
}

// PeekContext returns the top of the context stack without removing it.
func (ic *Interceptor) PeekContext() (value.Value, bool) {
	n := len(ic.stack)
	if n == 0 {
		return value.Undefined, false
	}
	return ic.stack[n-1], true
}

// Depth returns the number of entries on the context stack.
func (ic *Interceptor) Depth() int {
	return len(ic.stack)
}

// Within runs fn with x pushed as the current context.
//
// The stack is restored to its prior depth however fn exits, including a
// panic, discarding anything fn pushed and left behind. If x is not wrapped
// fn still runs, without a context entry.
func (ic *Interceptor) Within(x value.Value, fn func() (value.Value, error)) (value.Value, error) {
	depth := len(ic.stack)
	defer func() {
		if len(ic.stack) > depth {
			ic.truncate(depth)
		}
	}()
	ic.PushContext(x)
	return fn()
}

// truncate shrinks the stack, clearing vacated entries so popped wrappers
// can be reclaimed.
func (ic *Interceptor) truncate(n int) {
	for i := n; i < len(ic.stack); i++ {
		ic.stack[i] = value.Value{}
	}
	ic.stack = ic.stack[:n]
}
