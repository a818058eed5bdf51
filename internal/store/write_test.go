package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vvalues/internal/intercept"
	"github.com/roach88/vvalues/internal/op"
	"github.com/roach88/vvalues/internal/trace"
	"github.com/roach88/vvalues/internal/value"
)

func TestWriteEvents_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	events := []trace.Event{
		createTestEvent("s1", 1, "native"),
		{Seq: 2, Session: "s1", Site: "branch", Operator: "?:", Route: "rejected",
			Operands: []string{"true", "undefined"}, Result: "undefined", Error: "UNBRANCHABLE: nope"},
	}
	require.NoError(t, s.WriteEvents(ctx, events))

	got, err := s.ReadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, events, got)
}

func TestWriteEvents_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	batch := []trace.Event{createTestEvent("s1", 1, "native"), createTestEvent("s1", 2, "left")}
	require.NoError(t, s.WriteEvents(ctx, batch))
	require.NoError(t, s.WriteEvents(ctx, batch))

	dup := createTestEvent("s1", 2, "right")
	require.NoError(t, s.WriteEvents(ctx, []trace.Event{dup}))

	got, err := s.ReadSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "left", got[1].Route)
}

func TestWriteEvents_Empty(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.WriteEvents(context.Background(), nil))
}

func TestWriteEvents_NilOperands(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	e := createTestEvent("s1", 1, "native")
	e.Operands = nil
	require.NoError(t, s.WriteEvents(ctx, []trace.Event{e}))

	got, err := s.ReadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, got[0].Operands)
}

func TestRecorderFlushIntoStore(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := trace.NewRecorder("flush-session")
	ic := intercept.New(intercept.WithObserver(rec))
	_, err := ic.Binary(op.Add, value.Number(1), value.String("a"))
	require.NoError(t, err)
	_, err = ic.Unary(op.TypeOf, value.Null)
	require.NoError(t, err)

	require.NoError(t, rec.Flush(ctx, s))
	require.NoError(t, rec.Flush(ctx, s))

	got, err := s.ReadSession(ctx, "flush-session")
	require.NoError(t, err)
	assert.Equal(t, rec.Events(), got)
}
