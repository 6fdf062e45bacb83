package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/calsat/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// HistoryEntry is one run in the history listing.
type HistoryEntry struct {
	RunID       string `json:"run_id"`
	Problem     string `json:"problem,omitempty"`
	ProblemHash string `json:"problem_hash"`
	Solver      string `json:"solver"`
	Solved      bool   `json:"solved"`
	Meetings    int    `json:"meetings"`
	Constraints int    `json:"constraints"`
	Nodes       int    `json:"nodes"`
	DurationUS  int64  `json:"duration_us"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded solve runs",
		Long: `List solve runs recorded with 'solve --db', newest first.

Examples:
  calsat history --db runs.db
  calsat history --db runs.db --limit 10 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	runs, err := st.ListRuns(context.Background(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	entries := make([]HistoryEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, HistoryEntry{
			RunID:       run.ID,
			Problem:     run.ProblemName,
			ProblemHash: run.ProblemHash,
			Solver:      run.Solver,
			Solved:      run.Solved,
			Meetings:    run.Meetings,
			Constraints: run.ConstraintCount,
			Nodes:       run.Nodes,
			DurationUS:  run.Duration.Microseconds(),
		})
	}

	if formatter.Format == "json" {
		return formatter.SuccessJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No recorded runs.")
		return nil
	}
	for _, e := range entries {
		outcome := "no solution"
		if e.Solved {
			outcome = "solved"
		}
		name := e.Problem
		if name == "" {
			name = e.ProblemHash[:12]
		}
		fmt.Fprintf(formatter.Writer, "%s  %-10s %-8s %s (%d meetings, %d constraints, %d nodes, %s)\n",
			e.RunID, outcome, e.Solver, name, e.Meetings, e.Constraints, e.Nodes,
			time.Duration(e.DurationUS)*time.Microsecond)
	}
	return nil
}
