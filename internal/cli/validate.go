package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/vvalues/internal/harness"
)

// FileValidation is the validation outcome of one scenario file.
type FileValidation struct {
	Path     string `json:"path"`
	Valid    bool   `json:"valid"`
	Scenario string `json:"scenario,omitempty"`
	Error    string `json:"error,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files against the scenario schema and check that
handler references and $name bindings resolve. Nothing is executed.

Exit codes:
  0 - All files valid
  1 - One or more files invalid`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, path := range paths {
		fv := validateFile(path)
		formatter.VerboseLog("validated %s: valid=%t", path, fv.Valid)
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	invalid := 0
	for _, fv := range result.Files {
		if !fv.Valid {
			invalid++
		}
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeInvalidScenario,
				Message: fmt.Sprintf("%d of %d file(s) invalid", invalid, len(result.Files)),
			}
		}
		if err := formatter.JSON(resp); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, fv := range result.Files {
			switch {
			case fv.Valid:
				fmt.Fprintf(w, "✓ %s (%s)\n", fv.Path, fv.Scenario)
			case fv.Line > 0:
				fmt.Fprintf(w, "✗ %s:%d: %s\n", fv.Path, fv.Line, fv.Error)
			default:
				fmt.Fprintf(w, "✗ %s: %s\n", fv.Path, fv.Error)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) invalid", invalid, len(result.Files)))
	}
	return nil
}

func validateFile(path string) FileValidation {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		fv := FileValidation{Path: path, Error: err.Error()}
		var se *harness.SchemaError
		if errors.As(err, &se) && se.Pos.IsValid() {
			fv.Line = se.Pos.Line()
		}
		return fv
	}
	return FileValidation{Path: path, Valid: true, Scenario: scenario.Name}
}
