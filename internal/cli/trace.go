package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/vvalues/internal/store"
	"github.com/roach88/vvalues/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string
	Route    string // optional - filter to one route
	Operator string // optional - filter to one operator
}

// TraceResult holds the trace of one session.
type TraceResult struct {
	Session  string        `json:"session"`
	Timeline []trace.Event `json:"timeline"`
	Stats    TraceStats    `json:"stats"`
}

// TraceStats holds summary statistics for a session.
type TraceStats struct {
	TotalEvents int `json:"total_events"`
	Native      int `json:"native"`
	Intercepted int `json:"intercepted"`
	Rejected    int `json:"rejected"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show stored dispatch traces",
		Long: `Show the dispatch trace of a stored session, or list stored sessions
when --session is omitted.

Each event shows the dispatch site, operator, the route the dispatch took
(native, a handler capability, the assignment thunk, or rejected) and the
result.

Examples:
  vvalues trace --db ./traces.db
  vvalues trace --db ./traces.db --session 0190c7c2-...
  vvalues trace --db ./traces.db --session s1 --route left
  vvalues trace --db ./traces.db --session s1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace store")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to show (default: list sessions)")
	cmd.Flags().StringVar(&opts.Route, "route", "", "filter to one route")
	cmd.Flags().StringVar(&opts.Operator, "operator", "", "filter to one operator")

	return cmd
}

// openExistingStore opens a trace store that must already exist.
func openExistingStore(opts *RootOptions, flag string) (*store.Store, error) {
	path := opts.database(flag)
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no database given (use --db or db in vvalues.toml)")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExistingStore(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Session == "" {
		sessions, err := st.Sessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		if opts.Format == "json" {
			return formatter.JSON(CLIResponse{Status: "ok", Data: sessions})
		}
		writeSessionsText(cmd.OutOrStdout(), sessions)
		return nil
	}

	events, err := st.ReadSession(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	result := TraceResult{
		Session:  opts.Session,
		Timeline: filterEvents(events, opts.Route, opts.Operator),
		Stats:    traceStats(events),
	}

	if opts.Format == "json" {
		return formatter.JSON(CLIResponse{Status: "ok", Data: result, Session: result.Session})
	}

	if len(events) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No events found for session: %s\n", opts.Session)
		return nil
	}
	writeTraceText(cmd.OutOrStdout(), result, opts.Verbose)
	return nil
}

// filterEvents keeps events matching route and operator. Empty filters
// match everything.
func filterEvents(events []trace.Event, route, operator string) []trace.Event {
	out := make([]trace.Event, 0, len(events))
	for _, e := range events {
		if route != "" && e.Route != route {
			continue
		}
		if operator != "" && e.Operator != operator {
			continue
		}
		out = append(out, e)
	}
	return out
}

func traceStats(events []trace.Event) TraceStats {
	stats := TraceStats{TotalEvents: len(events)}
	stats.Native = trace.Count(events, "", "native")
	stats.Rejected = trace.Count(events, "", "rejected")
	stats.Intercepted = stats.TotalEvents - stats.Native - stats.Rejected
	return stats
}

func writeSessionsText(w io.Writer, sessions []store.SessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions stored.")
		return
	}
	fmt.Fprintln(w, "=== Sessions ===")
	for _, s := range sessions {
		fmt.Fprintf(w, "  %s  events=%d last_seq=%d errors=%d\n", s.ID, s.Events, s.LastSeq, s.Errors)
	}
}

func writeTraceText(w io.Writer, result TraceResult, verbose bool) {
	fmt.Fprintf(w, "Trace for Session: %s\n", result.Session)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	writeTimeline(w, result.Timeline, verbose)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Events: %d\n", result.Stats.TotalEvents)
	fmt.Fprintf(w, "  Native:       %d\n", result.Stats.Native)
	fmt.Fprintf(w, "  Intercepted:  %d\n", result.Stats.Intercepted)
	fmt.Fprintf(w, "  Rejected:     %d\n", result.Stats.Rejected)
}

// writeTimeline prints one line per event, plus operands when verbose.
func writeTimeline(w io.Writer, events []trace.Event, verbose bool) {
	if len(events) == 0 {
		fmt.Fprintln(w, "  (no events)")
		return
	}
	for _, e := range events {
		fmt.Fprintf(w, "  [%d] %-6s %-10s %-8s -> %s\n", e.Seq, e.Site, e.Operator, e.Route, e.Result)
		if verbose {
			fmt.Fprintf(w, "       Operands: %s\n", strings.Join(e.Operands, ", "))
		}
		if e.Error != "" {
			fmt.Fprintf(w, "       Error: %s\n", e.Error)
		}
	}
}
