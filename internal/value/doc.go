// Package value provides the tagged value model that every dispatcher works on.
//
// This package contains type definitions and coercions only. All other internal
// packages import value; value imports nothing internal.
//
// A Value is one of seven kinds:
//   - Undefined, Null, Bool, Number, String: primitives
//   - Object: a property bag with an optional prototype and call behaviour
//   - Wrapped: an opaque handle produced by the interception engine
//
// Objects and wrapped handles are "of object type". A Box is an Object that
// holds exactly one primitive and coerces back to it; the engine uses boxes to
// give primitives an identity.
//
// Coercions follow JavaScript rules closely enough that native fallback
// produces the results embedding code expects (int32 bitwise ops, NaN
// comparisons, string concatenation on +).
package value
