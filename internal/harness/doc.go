// Package harness runs interception scenarios described in YAML and checks
// them against expectations, trace assertions and golden traces.
//
// # Scenario Format
//
//	name: left_precedence
//	description: "Left handler wins when both operands are wrapped"
//	session: test-session-precedence
//	handlers:
//	  - name: L
//	    kind: tag
//	  - name: R
//	    kind: tag
//	steps:
//	  - op: wrap
//	    handler: L
//	    value: 1
//	    as: l
//	  - op: wrap
//	    handler: R
//	    value: 2
//	    as: r
//	  - op: binary
//	    operator: "+"
//	    args: ["$l", "$r"]
//	    expect: "L.left +"
//	assertions:
//	  - type: trace_count
//	    route: right
//	    count: 0
//
// # Handler Kinds
//
//   - symbolic: a symbolic.Family; wrap with var: builds a variable
//   - instrument: an instrument.Meter
//   - inert: a handler with no capabilities
//   - tag: every capability answers "<name>.<route> <operator>" without
//     running thunks
//
// # Step Ops
//
//   - wrap, unary, binary, assign, branch: the interceptor operations; branch
//     takes then: and else: literals as its thunks
//   - push, pop, peek: the context stack
//   - unwrap: whether the key opens the wrapper
//   - target: the wrapped target, unboxed
//   - release, is_wrapped, is_branchable
//
// A key: of "none" presents a nil key. The name of a declared handler
// presents that handler's key; any other name presents a fresh key.
//
// # Literals
//
// Operands and expectations are YAML scalars or maps:
//
//   - "$name": the value bound by an earlier step's as:
//   - "@undefined", "@null", "@nan": the corresponding values
//   - null: Null (as an operand; as an expectation it means "no check")
//   - maps: plain objects with the given properties
//
// # Assertion Types
//
//   - trace_contains: an event matches site/operator/route
//   - trace_count: exactly count events match site/operator/route
//   - trace_order: operators first appear in the given order
//   - context_depth: the context stack depth after the last step
//   - live_wrappers: the number of live wrappers after the last step
//
// Each scenario runs on a fresh Interceptor with a deterministic clock and
// a fixed session, its trace round-trips through an in-memory store, and
// RunWithGolden compares the canonical trace with testdata/golden.
package harness
