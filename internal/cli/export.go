package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/vvalues/internal/trace"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Session  string
	Output   string
}

// ExportResult describes a written export.
type ExportResult struct {
	Session string `json:"session"`
	Events  int    `json:"events"`
	Output  string `json:"output"`
	Bytes   int    `json:"bytes"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored session as canonical CBOR",
		Long: `Export the trace of one stored session as a canonical CBOR log.

The same session always exports to the same bytes.

Example:
  vvalues export --db ./traces.db --session s1 -o s1.cbor`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace store")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to export (required)")
	_ = cmd.MarkFlagRequired("session")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExistingStore(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	events, err := st.ReadSession(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}
	if len(events) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no events found for session: %s", opts.Session))
	}

	data, err := trace.MarshalCBOR(trace.Log{Session: opts.Session, Events: events})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode trace", err)
	}
	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write export", err)
	}

	result := ExportResult{
		Session: opts.Session,
		Events:  len(events),
		Output:  opts.Output,
		Bytes:   len(data),
	}
	formatter := newFormatter(opts.RootOptions, cmd)
	if opts.Format == "json" {
		return formatter.JSON(CLIResponse{Status: "ok", Data: result, Session: result.Session})
	}
	return formatter.Success(fmt.Sprintf("Exported %d event(s) of session %s to %s (%d bytes)",
		result.Events, result.Session, result.Output, result.Bytes))
}
