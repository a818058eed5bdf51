// Package intercept is the operator interception engine.
//
// Embedding code rewrites every operator site into a call on an Interceptor:
//
//	x + y        ->  ic.Binary(op.Add, x, y)
//	-x           ->  ic.Unary(op.Negate, x)
//	a.b = c      ->  ic.Assign(a, "b", c, func() (value.Value, error) { ... })
//	c ? t : e    ->  ic.Branch(c, test, thenThunk, elseThunk)
//
// A value becomes interceptable by wrapping it with a handler. Wrapped values
// route operator sites to the handler's capabilities; everything else falls
// back to package native.
//
// Dispatch rules:
//   - Unary: wrapped operand calls Handler.Unary, no native fallback
//   - Binary: left operand takes precedence over right
//   - Assign: first of ctx, left, right with the assign capability wins,
//     otherwise the native thunk runs
//   - Branch: only wrapped conditions are branchable
//
// The association table holds each wrapper weakly. Once a wrapper becomes
// unreachable its record is reclaimed by a runtime cleanup, so handler and
// target live exactly as long as the wrapper does (or until Release).
// Records hold handler and target strongly, so wrappers whose records reach
// each other form a cycle the collector cannot break. Release one of them to
// let the rest go.
//
// An Interceptor is single-goroutine. Create one per evaluation domain.
package intercept
