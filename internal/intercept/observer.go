package intercept

import (
	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/value"
)

// Site is the kind of operator site being dispatched.
type Site string

const (
	SiteUnary  Site = "unary"
	SiteBinary Site = "binary"
	SiteAssign Site = "assign"
	SiteBranch Site = "branch"
)

// Route records where a dispatch went.
type Route string

const (
	RouteNative   Route = "native"   // no wrapped operand, host semantics
	RouteUnary    Route = "unary"    // Handler.Unary
	RouteLeft     Route = "left"     // Handler.Left
	RouteRight    Route = "right"    // Handler.Right
	RouteAssign   Route = "assign"   // Handler.Assign
	RouteThunk    Route = "thunk"    // assign fallback
	RouteBranch   Route = "branch"   // Handler.Branch
	RouteRejected Route = "rejected" // DispatchError
)

// Event describes one completed dispatch.
//
// Events are delivered after the site returns, so a handler that dispatches
// further operators produces its inner events first.
type Event struct {
	Site     Site
	Operator op.Operator
	Route    Route
	Operands []value.Value
	Result   value.Value
	Err      error
}

// Observer receives an Event for every dispatch.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }
