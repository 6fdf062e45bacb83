package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/calsat/internal/engine"
	"github.com/roach88/calsat/internal/problem"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
}

// DomainReport describes one variable's domain after propagation.
type DomainReport struct {
	Meeting int      `json:"meeting"`
	Size    int      `json:"size"`
	Values  []string `json:"values"`
}

// CheckReport is the check command's output payload.
type CheckReport struct {
	Problem      string         `json:"problem,omitempty"`
	Meetings     int            `json:"meetings"`
	Candidates   int            `json:"candidates"`
	Constraints  int            `json:"constraints"`
	Domains      []DomainReport `json:"domains"`
	Satisfiable  bool           `json:"satisfiable"`
	PrunedValues int            `json:"pruned_values"`
}

// NewCheckCommand creates the check command, which runs propagation
// without search so the pruned domains can be inspected.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <problem.yaml>",
		Short: "Run consistency filtering and show the pruned domains",
		Long: `Run node consistency and arc consistency on a problem document and
print each meeting's surviving candidate dates, without searching.

An empty domain proves the problem unsatisfiable. Non-empty domains do
not prove the reverse - that takes the solve command.

Examples:
  calsat check meetings.yaml
  calsat check meetings.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *CheckOptions, path string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	p, err := problem.Load(path)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load problem", err)
	}

	domains := engine.NewDomains(p.Meetings, p.Candidates)
	engine.NodeConsistency(domains, p.Constraints)
	engine.ArcConsistency(domains, p.Constraints)

	report := CheckReport{
		Problem:     p.Name,
		Meetings:    p.Meetings,
		Candidates:  len(p.Candidates),
		Constraints: p.Constraints.Len(),
		Satisfiable: true,
	}
	for i, d := range domains {
		dr := DomainReport{Meeting: i, Size: d.Len()}
		for _, v := range d.Values() {
			dr.Values = append(dr.Values, v.Format(time.RFC3339))
		}
		report.Domains = append(report.Domains, dr)
		report.PrunedValues += len(p.Candidates) - d.Len()
		if d.Len() == 0 {
			report.Satisfiable = false
		}
	}

	return outputCheckReport(formatter, report)
}

func outputCheckReport(f *OutputFormatter, report CheckReport) error {
	if f.Format == "json" {
		return f.SuccessJSON(report)
	}

	if report.Problem != "" {
		fmt.Fprintf(f.Writer, "Problem: %s (%d meetings, %d candidate dates, %d constraints)\n",
			report.Problem, report.Meetings, report.Candidates, report.Constraints)
	}
	fmt.Fprintf(f.Writer, "Pruned %d value(s)\n", report.PrunedValues)
	for _, d := range report.Domains {
		fmt.Fprintf(f.Writer, "  meeting %d: %d value(s)", d.Meeting, d.Size)
		if d.Size == 0 {
			fmt.Fprint(f.Writer, "  [empty - unsatisfiable]")
		}
		fmt.Fprintln(f.Writer)
		for _, v := range d.Values {
			fmt.Fprintf(f.Writer, "    %s\n", v)
		}
	}
	if !report.Satisfiable {
		fmt.Fprintln(f.Writer, "Unsatisfiable: at least one meeting has no remaining dates.")
	}
	return nil
}
