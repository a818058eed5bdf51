package store

import (
	"context"
	"fmt"

	"github.com/roach88/vvalues/internal/trace"
)

// WriteEvents appends events in a single transaction.
//
// Uses ON CONFLICT DO NOTHING for idempotency: an event whose
// (session, seq) already exists is silently skipped. Sessions are created
// on first write.
func (s *Store) WriteEvents(ctx context.Context, events []trace.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write events: begin: %w", err)
	}
	defer tx.Rollback()

	for _, e := range events {
		operands, err := marshalOperands(e.Operands)
		if err != nil {
			return fmt.Errorf("write events: seq %d: %w", e.Seq, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (id, first_seq) VALUES (?, ?)
			ON CONFLICT(id) DO NOTHING
		`, e.Session, e.Seq); err != nil {
			return fmt.Errorf("write events: session %s: %w", e.Session, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events
			(session, seq, site, operator, route, operands, result, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(session, seq) DO NOTHING
		`,
			e.Session,
			e.Seq,
			e.Site,
			e.Operator,
			e.Route,
			operands,
			e.Result,
			e.Error,
		); err != nil {
			return fmt.Errorf("write events: seq %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write events: commit: %w", err)
	}
	return nil
}
