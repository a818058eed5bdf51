package intercept

import (
	"fmt"

	"github.com/roach88/vvalues/internal/native"
	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/value"
)

// Unary dispatches a unary operator site.
//
// A wrapped operand always goes to its handler, even for operators the
// handler might not expect. An unwrapped operand uses native semantics.
func (ic *Interceptor) Unary(o op.Operator, operand value.Value) (value.Value, error) {
	rec, ok := ic.table.lookup(operand)
	if !ok {
		res, err := native.Unary(o, operand)
		ic.emit(SiteUnary, o, RouteNative, res, err, operand)
		return res, err
	}
	h, ok := rec.handler.(UnaryHandler)
	if !ok || !rec.caps.Has(CapUnary) {
		return ic.reject(missingCapability(SiteUnary, o, CapUnary, rec.caps), operand)
	}
	res, err := h.Unary(rec.target, o, operand)
	ic.emit(SiteUnary, o, RouteUnary, res, err, operand)
	return res, err
}

// Binary dispatches a binary operator site.
//
// The left operand takes precedence: when both operands are wrapped only
// the left handler runs, and it sees the right wrapper as an opaque value.
func (ic *Interceptor) Binary(o op.Operator, left, right value.Value) (value.Value, error) {
	if rec, ok := ic.table.lookup(left); ok {
		h, ok := rec.handler.(LeftHandler)
		if !ok || !rec.caps.Has(CapLeft) {
			return ic.reject(missingCapability(SiteBinary, o, CapLeft, rec.caps), left, right)
		}
		res, err := h.Left(rec.target, o, right)
		ic.emit(SiteBinary, o, RouteLeft, res, err, left, right)
		return res, err
	}
	if rec, ok := ic.table.lookup(right); ok {
		h, ok := rec.handler.(RightHandler)
		if !ok || !rec.caps.Has(CapRight) {
			return ic.reject(missingCapability(SiteBinary, o, CapRight, rec.caps), left, right)
		}
		res, err := h.Right(rec.target, o, left)
		ic.emit(SiteBinary, o, RouteRight, res, err, left, right)
		return res, err
	}
	res, err := native.Binary(o, left, right)
	ic.emit(SiteBinary, o, RouteNative, res, err, left, right)
	return res, err
}

// Assign dispatches an assignment site.
//
// Candidates are tried in the order ctx, left, right. The first wrapped
// candidate whose handler can assign receives the site; wrapped candidates
// without the capability are skipped. With no taker, nativeAssign runs.
func (ic *Interceptor) Assign(ctx, left, right value.Value, nativeAssign Thunk) (value.Value, error) {
	for _, candidate := range [...]value.Value{ctx, left, right} {
		rec, ok := ic.table.lookup(candidate)
		if !ok || !rec.caps.Has(CapAssign) {
			continue
		}
		h, ok := rec.handler.(AssignHandler)
		if !ok {
			continue
		}
		res, err := h.Assign(ctx, left, right, nativeAssign)
		ic.emit(SiteAssign, op.Assign, RouteAssign, res, err, ctx, left, right)
		return res, err
	}
	res, err := value.Undefined, error(nil)
	if nativeAssign != nil {
		res, err = nativeAssign()
	}
	ic.emit(SiteAssign, op.Assign, RouteThunk, res, err, ctx, left, right)
	return res, err
}

// Branch dispatches a conditional site on cond.
//
// cond must be wrapped by a handler with the branch capability. The handler
// decides which of then and els run; neither runs when dispatch fails.
func (ic *Interceptor) Branch(cond, test value.Value, then, els Thunk) (value.Value, error) {
	rec, ok := ic.table.lookup(cond)
	if !ok {
		return ic.reject(&DispatchError{
			Code:     ErrCodeUnbranchable,
			Site:     SiteBranch,
			Operator: op.Conditional,
			Message:  fmt.Sprintf("branch called, but %s is not branchable", value.Inspect(cond)),
		}, cond, test)
	}
	h, ok := rec.handler.(BranchHandler)
	if !ok || !rec.caps.Has(CapBranch) {
		return ic.reject(missingCapability(SiteBranch, op.Conditional, CapBranch, rec.caps), cond, test)
	}
	res, err := h.Branch(rec.target, test, then, els)
	ic.emit(SiteBranch, op.Conditional, RouteBranch, res, err, cond, test)
	return res, err
}

// IsBranchable reports whether Branch would reach a handler for v.
func (ic *Interceptor) IsBranchable(v value.Value) bool {
	rec, ok := ic.table.lookup(v)
	if !ok || !rec.caps.Has(CapBranch) {
		return false
	}
	_, ok = rec.handler.(BranchHandler)
	return ok
}

func (ic *Interceptor) reject(err *DispatchError, operands ...value.Value) (value.Value, error) {
	ic.emit(err.Site, err.Operator, RouteRejected, value.Undefined, err, operands...)
	return value.Undefined, err
}

func (ic *Interceptor) emit(site Site, o op.Operator, route Route, res value.Value, err error, operands ...value.Value) {
	ic.logger.Debug("dispatch",
		"site", site,
		"operator", o,
		"route", route)
	if ic.observer == nil {
		return
	}
	ic.observer.Observe(Event{
		Site:     site,
		Operator: o,
		Route:    route,
		Operands: append([]value.Value(nil), operands...),
		Result:   res,
		Err:      err,
	})
}
