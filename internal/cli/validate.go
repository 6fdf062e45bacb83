package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/calsat/internal/problem"
)

// ValidationIssue is one problem-document diagnostic.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <problem.yaml>",
		Short: "Validate a problem document without solving",
		Long: `Validate a problem document against the schema and construct its
constraints, without running any solver.

Collects all schema violations instead of stopping at the first, so a
document can be fixed in one pass.

Exit codes:
  0 - Document is valid
  1 - Validation failed
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	errs := problem.Validate(path)
	if len(errs) == 0 {
		if formatter.Format == "json" {
			return formatter.SuccessJSON(ValidationResult{Valid: true})
		}
		fmt.Fprintln(formatter.Writer, "Valid.")
		return nil
	}

	result := ValidationResult{Valid: false}
	for _, err := range errs {
		var loadErr *problem.LoadError
		if errors.As(err, &loadErr) {
			if loadErr.Code == problem.ErrCodeNotFound {
				return WrapExitError(ExitCommandError, "cannot read problem document", err)
			}
			result.Issues = append(result.Issues, ValidationIssue{Code: loadErr.Code, Message: loadErr.Message})
			continue
		}
		result.Issues = append(result.Issues, ValidationIssue{Code: "ERROR", Message: err.Error()})
	}

	if formatter.Format == "json" {
		if err := formatter.Error("VALIDATION_FAILED", "problem document is invalid", result.Issues); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "Invalid: %d issue(s)\n", len(result.Issues))
		for _, issue := range result.Issues {
			fmt.Fprintf(formatter.Writer, "  [%s] %s\n", issue.Code, issue.Message)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(result.Issues)))
}
