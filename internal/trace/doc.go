// Package trace records interception dispatches as an ordered event log.
//
// A Recorder plugs into an Interceptor as its Observer and turns every
// dispatch into an Event stamped with a session ID and a logical sequence
// number. Sequence numbers come from a monotonic Clock, never wall time, so
// replaying the same program yields the same log.
//
// Logs serialize two ways:
//   - MarshalCanonical: canonical JSON (sorted keys, NFC strings, no HTML
//     escaping) for golden files and display
//   - MarshalCBOR: canonical CBOR for compact export
package trace
