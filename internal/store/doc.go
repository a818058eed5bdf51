// Package store provides SQLite-backed durable storage for dispatch traces.
//
// The store is an append-only log of trace events grouped by session:
//   - sessions: one row per recorded session
//   - events: one row per dispatch, keyed by (session, seq)
//
// # Patterns
//
// Idempotent writes
//   - PRIMARY KEY(session, seq) with ON CONFLICT DO NOTHING
//   - Flushing the same batch twice stores it once
//
// Logical time
//   - Events are ordered by seq (logical clock), never timestamps
//   - All reads include ORDER BY seq ASC
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: events reference sessions
package store
