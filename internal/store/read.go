package store

import (
	"context"
	"fmt"

	"github.com/roach88/vvalues/internal/trace"
)

// SessionSummary describes one stored session.
type SessionSummary struct {
	ID      string `json:"id"`
	Events  int    `json:"events"`
	LastSeq int64  `json:"last_seq"`
	Errors  int    `json:"errors"`
}

// ReadSession returns every event of session in seq order.
// An unknown session yields an empty slice.
func (s *Store) ReadSession(ctx context.Context, session string) ([]trace.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session, seq, site, operator, route, operands, result, error
		FROM events
		WHERE session = ?
		ORDER BY seq ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", session, err)
	}
	defer rows.Close()

	events := []trace.Event{}
	for rows.Next() {
		var (
			e        trace.Event
			operands string
		)
		if err := rows.Scan(&e.Session, &e.Seq, &e.Site, &e.Operator, &e.Route, &operands, &e.Result, &e.Error); err != nil {
			return nil, fmt.Errorf("read session %s: scan: %w", session, err)
		}
		if e.Operands, err = unmarshalOperands(operands); err != nil {
			return nil, fmt.Errorf("read session %s: seq %d: %w", session, e.Seq, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read session %s: %w", session, err)
	}
	return events, nil
}

// Sessions summarises all stored sessions, ordered by ID.
func (s *Store) Sessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id,
		       COUNT(e.seq),
		       COALESCE(MAX(e.seq), 0),
		       COALESCE(SUM(CASE WHEN e.error != '' THEN 1 ELSE 0 END), 0)
		FROM sessions s
		LEFT JOIN events e ON e.session = s.id
		GROUP BY s.id
		ORDER BY s.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	summaries := []SessionSummary{}
	for rows.Next() {
		var sum SessionSummary
		if err := rows.Scan(&sum.ID, &sum.Events, &sum.LastSeq, &sum.Errors); err != nil {
			return nil, fmt.Errorf("list sessions: scan: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return summaries, nil
}

// LastSeq returns the highest stored seq for session, or 0.
// Used with trace.NewClockAt to append to an existing session.
func (s *Store) LastSeq(ctx context.Context, session string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM events WHERE session = ?
	`, session).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq %s: %w", session, err)
	}
	return seq, nil
}
