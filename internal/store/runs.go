package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Solver names recorded with each run.
const (
	SolverExact    = "exact"
	SolverParallel = "parallel"
	SolverLocal    = "local"
)

// ErrNotFound is returned by GetRun for unknown run IDs.
var ErrNotFound = errors.New("run not found")

// Run is one recorded solve attempt.
type Run struct {
	ID              string
	ProblemHash     string
	ProblemName     string
	Meetings        int
	ConstraintCount int
	Solver          string
	Solved          bool
	Nodes           int
	Pruned          int
	DepthExhausted  bool
	Duration        time.Duration
	CreatedAt       time.Time

	// Solution holds the assignment in variable order for solved runs,
	// nil otherwise.
	Solution []time.Time
}

// RecordRun inserts a run and, when solved, its assignment. A fresh
// UUIDv7 run ID is generated (time-ordered, so `ORDER BY id` matches
// insertion order) and returned.
func (s *Store) RecordRun(ctx context.Context, run Run) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("record run: generate id: %w", err)
	}
	run.ID = id.String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, problem_hash, problem_name, meetings, constraint_count, solver, solved, nodes, pruned, depth_exhausted, duration_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.ProblemHash,
		run.ProblemName,
		run.Meetings,
		run.ConstraintCount,
		run.Solver,
		boolToInt(run.Solved),
		run.Nodes,
		run.Pruned,
		boolToInt(run.DepthExhausted),
		run.Duration.Microseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}

	for i, v := range run.Solution {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_values (run_id, var_idx, value) VALUES (?, ?, ?)
		`, run.ID, i, v.UTC().Format(time.RFC3339))
		if err != nil {
			return "", fmt.Errorf("record run value %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.ID, nil
}

// GetRun loads one run, including its assignment when solved.
// Returns ErrNotFound for unknown IDs.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, problem_hash, problem_name, meetings, constraint_count, solver,
		       solved, nodes, pruned, depth_exhausted, duration_us, created_at
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT value FROM run_values WHERE run_id = ? ORDER BY var_idx
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get run values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("get run values: %w", err)
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("get run values: bad value %q: %w", raw, err)
		}
		run.Solution = append(run.Solution, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run values: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first, without their
// assignments. limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, problem_hash, problem_name, meetings, constraint_count, solver,
		       solved, nodes, pruned, depth_exhausted, duration_us, created_at
		FROM runs ORDER BY id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run        Run
		solved     int
		exhausted  int
		durationUS int64
		createdAt  string
	)
	err := sc.Scan(
		&run.ID,
		&run.ProblemHash,
		&run.ProblemName,
		&run.Meetings,
		&run.ConstraintCount,
		&run.Solver,
		&solved,
		&run.Nodes,
		&run.Pruned,
		&exhausted,
		&durationUS,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	run.Solved = solved != 0
	run.DepthExhausted = exhausted != 0
	run.Duration = time.Duration(durationUS) * time.Microsecond
	if t, err := time.Parse("2006-01-02T15:04:05.999Z", createdAt); err == nil {
		run.CreatedAt = t
	}
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
