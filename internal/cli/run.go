package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/vvalues/internal/harness"
	"github.com/roach88/vvalues/internal/store"
	"github.com/roach88/vvalues/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string

	// Sessions allows overriding the session generator (for testing).
	// If nil, defaults to trace.UUIDv7Generator.
	Sessions trace.SessionGenerator
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	Scenario  string               `json:"scenario"`
	Pass      bool                 `json:"pass"`
	Session   string               `json:"session"`
	Steps     []harness.StepResult `json:"steps"`
	Trace     []trace.Event        `json:"trace"`
	Errors    []string             `json:"errors,omitempty"`
	Persisted bool                 `json:"persisted"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run one scenario and show its trace",
		Long: `Run a single scenario file and print each step's result and the
recorded dispatch trace.

Scenarios without a fixed session get a fresh UUIDv7 session. With --db
(or db in vvalues.toml) the trace is appended to a SQLite trace store.
Running a scenario with a fixed session again continues that session's
sequence numbers after the last stored event.

Exit codes:
  0 - Scenario passed
  1 - An expectation or assertion failed
  2 - Command error (unreadable scenario, database error, etc.)

Examples:
  vvalues run ./scenarios/left_precedence.yaml
  vvalues run ./scenarios/left_precedence.yaml --db ./traces.db
  vvalues run ./scenarios/left_precedence.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace store")

	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	logger := opts.logger(cmd.ErrOrStderr())

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	sessions := opts.Sessions
	if sessions == nil {
		sessions = trace.UUIDv7Generator{}
	}
	session := scenario.Session
	if session == "" {
		session = sessions.Generate()
	}
	runOpts := []harness.RunOption{
		harness.WithSessionGenerator(trace.NewFixedGenerator(session)),
		harness.WithLogger(logger),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var st *store.Store
	if db := opts.database(opts.Database); db != "" {
		st, err = store.Open(db)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open trace store", err)
		}
		defer st.Close()

		last, err := st.LastSeq(ctx, session)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read trace store", err)
		}
		if last > 0 {
			logger.Info("appending to session", "session", session, "after_seq", last)
			runOpts = append(runOpts, harness.WithClock(trace.NewClockAt(last)))
		}
	}

	logger.Info("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	result, err := harness.Run(scenario, runOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	out := RunResult{
		Scenario: scenario.Name,
		Pass:     result.Pass,
		Session:  result.Session,
		Steps:    result.Steps,
		Trace:    result.Trace,
		Errors:   result.Errors,
	}

	if st != nil {
		if err := st.WriteEvents(ctx, result.Trace); err != nil {
			return WrapExitError(ExitCommandError, "failed to persist trace", err)
		}
		out.Persisted = true
		logger.Info("trace persisted", "session", result.Session, "events", len(result.Trace))
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: out, Session: out.Session}
		if !out.Pass {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeScenarioFailed,
				Message: fmt.Sprintf("scenario %s failed", out.Scenario),
			}
		}
		if err := newFormatter(opts.RootOptions, cmd).JSON(resp); err != nil {
			return err
		}
	} else {
		writeRunText(cmd.OutOrStdout(), out)
	}

	if !out.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", out.Scenario))
	}
	return nil
}

func writeRunText(w io.Writer, r RunResult) {
	fmt.Fprintf(w, "Scenario: %s\n", r.Scenario)
	fmt.Fprintf(w, "Session:  %s\n", r.Session)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Steps ===")
	for _, s := range r.Steps {
		switch {
		case s.Error != "":
			fmt.Fprintf(w, "  [%d] %s ! %s\n", s.Index, s.Op, s.Error)
		case s.Render != "" && s.Render != s.Value:
			fmt.Fprintf(w, "  [%d] %s = %s  (%s)\n", s.Index, s.Op, s.Value, s.Render)
		default:
			fmt.Fprintf(w, "  [%d] %s = %s\n", s.Index, s.Op, s.Value)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Trace ===")
	writeTimeline(w, r.Trace, false)
	fmt.Fprintln(w)

	if r.Pass {
		fmt.Fprintln(w, "\u2713 PASS")
		return
	}
	fmt.Fprintln(w, "\u2717 FAIL")
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}
