package testutil

// DefaultSession is used when a scenario does not name its session.
const DefaultSession = "test-session-default"

// FixedSessionGenerator returns the same session ID every time.
//
// Unlike trace.FixedGenerator, which hands out a sequence of IDs, every run
// shares one ID so golden traces stay byte-identical.
//
// Thread-safety: FixedSessionGenerator is immutable and safe for concurrent use.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator creates a generator for id, or DefaultSession
// when id is empty.
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = DefaultSession
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session ID.
//
// Implements trace.SessionGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
