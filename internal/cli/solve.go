package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/calsat/internal/engine"
	"github.com/roach88/calsat/internal/local"
	"github.com/roach88/calsat/internal/problem"
	"github.com/roach88/calsat/internal/store"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	Local    bool
	Parallel int
	Database string
}

// SolveReport is the solve command's output payload.
type SolveReport struct {
	Problem     string   `json:"problem,omitempty"`
	ProblemHash string   `json:"problem_hash"`
	Meetings    int      `json:"meetings"`
	Constraints int      `json:"constraints"`
	Solver      string   `json:"solver"`
	Solved      bool     `json:"solved"`
	Solution    []string `json:"solution,omitempty"`
	Nodes       int      `json:"nodes"`
	Pruned      int      `json:"pruned"`
	DurationUS  int64    `json:"duration_us"`
	RunID       string   `json:"run_id,omitempty"`
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve <problem.yaml>",
		Short: "Solve a problem document",
		Long: `Load a problem document and search for a satisfying schedule.

The default solver is exact: node consistency and arc consistency prune
the per-meeting domains, then backtracking search runs over what
remains. A "no solution" result from the exact solver means none exists.

--parallel N splits the first search level across N goroutines; the
existence answer matches the exact solver but the reported assignment
may differ between runs. --local uses min-conflicts local search, which
is fast but incomplete: its "no solution" means only that the search
budget ran out.

A no-solution outcome exits 0 - it is an answer, not a failure.

Examples:
  calsat solve meetings.yaml
  calsat solve meetings.yaml --parallel 4
  calsat solve meetings.yaml --db runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Local, "local", false, "use the approximate local-search solver")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "split first-level search across N goroutines")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

func runSolve(opts *SolveOptions, path string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Local && opts.Parallel > 0 {
		return NewExitError(ExitCommandError, "--local and --parallel are mutually exclusive")
	}

	p, err := problem.Load(path)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load problem", err)
	}
	hash, err := p.Hash()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash problem", err)
	}
	formatter.VerboseLog("Loaded %q: %d meetings, %d candidate dates, %d constraints",
		p.Name, p.Meetings, len(p.Candidates), p.Constraints.Len())

	report := SolveReport{
		Problem:     p.Name,
		ProblemHash: hash,
		Meetings:    p.Meetings,
		Constraints: p.Constraints.Len(),
	}

	var (
		solution []time.Time
		stats    engine.Stats
	)
	switch {
	case opts.Local:
		report.Solver = store.SolverLocal
		start := time.Now()
		solution = local.Solve(p.Meetings, p.Candidates, p.Constraints)
		stats.Duration = time.Since(start)
	case opts.Parallel > 0:
		report.Solver = store.SolverParallel
		result := engine.SolveParallel(context.Background(), p.Meetings, p.Candidates, p.Constraints, opts.Parallel)
		solution, stats = result.Solution, result.Stats
	default:
		report.Solver = store.SolverExact
		result := engine.Solve(p.Meetings, p.Candidates, p.Constraints)
		solution, stats = result.Solution, result.Stats
	}

	report.Solved = solution != nil
	report.Nodes = stats.NodesVisited
	report.Pruned = stats.Pruned()
	report.DurationUS = stats.Duration.Microseconds()
	for _, t := range solution {
		report.Solution = append(report.Solution, t.Format(time.RFC3339))
	}

	if opts.Database != "" {
		runID, err := recordRun(opts.Database, p, hash, report.Solver, solution, stats)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		report.RunID = runID
		formatter.VerboseLog("Recorded run %s", runID)
	}

	return outputSolveReport(formatter, report)
}

func recordRun(dbPath string, p *problem.Problem, hash, solver string, solution []time.Time, stats engine.Stats) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	return st.RecordRun(context.Background(), store.Run{
		ProblemHash:     hash,
		ProblemName:     p.Name,
		Meetings:        p.Meetings,
		ConstraintCount: p.Constraints.Len(),
		Solver:          solver,
		Solved:          solution != nil,
		Nodes:           stats.NodesVisited,
		Pruned:          stats.Pruned(),
		DepthExhausted:  stats.DepthExhausted,
		Duration:        stats.Duration,
		Solution:        solution,
	})
}

func outputSolveReport(f *OutputFormatter, report SolveReport) error {
	if f.Format == "json" {
		return f.SuccessJSON(report)
	}

	if report.Problem != "" {
		fmt.Fprintf(f.Writer, "Problem: %s (%d meetings, %d constraints)\n",
			report.Problem, report.Meetings, report.Constraints)
	} else {
		fmt.Fprintf(f.Writer, "Problem: %d meetings, %d constraints\n",
			report.Meetings, report.Constraints)
	}
	if !report.Solved {
		fmt.Fprintln(f.Writer, "No solution.")
		return nil
	}
	fmt.Fprintln(f.Writer, "Solution:")
	for i, v := range report.Solution {
		fmt.Fprintf(f.Writer, "  meeting %d: %s\n", i, v)
	}
	return nil
}

// configureLogging sets the process-wide slog default from the verbose
// flag. Logs go to stderr so JSON output on stdout stays parseable.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
