package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with the given arguments against fresh buffers.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeProblemFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

// jsonResponse mirrors CLIResponse with a raw payload for typed decoding.
type jsonResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

func decodeResponse(t *testing.T, out string) jsonResponse {
	t.Helper()
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

const solvableDoc = `
name: standup
meetings: 2
dates:
  start: 2023-01-01
  days: 3
constraints:
  - { left: 0, op: "<", right: 1 }
`

const unsatisfiableDoc = `
name: deadlock
meetings: 2
dates:
  start: 2023-01-01
  days: 3
constraints:
  - { left: 0, op: "<", right: 1 }
  - { left: 1, op: "<", right: 0 }
`

func TestSolveCommand(t *testing.T) {
	t.Run("text output with a solution", func(t *testing.T) {
		stdout, _, err := execute(t, "solve", writeProblemFile(t, solvableDoc))
		require.NoError(t, err)

		assert.Contains(t, stdout, "Problem: standup (2 meetings, 1 constraints)")
		assert.Contains(t, stdout, "Solution:")
		assert.Contains(t, stdout, "meeting 0: 2023-01-01T00:00:00Z")
		assert.Contains(t, stdout, "meeting 1: 2023-01-02T00:00:00Z")
	})

	t.Run("no solution is still a success", func(t *testing.T) {
		stdout, _, err := execute(t, "solve", writeProblemFile(t, unsatisfiableDoc))
		require.NoError(t, err)
		assert.Contains(t, stdout, "No solution.")
	})

	t.Run("json output", func(t *testing.T) {
		stdout, _, err := execute(t, "solve", writeProblemFile(t, solvableDoc), "--format", "json")
		require.NoError(t, err)

		resp := decodeResponse(t, stdout)
		assert.Equal(t, "ok", resp.Status)

		var report SolveReport
		require.NoError(t, json.Unmarshal(resp.Data, &report))
		assert.Equal(t, "standup", report.Problem)
		assert.Equal(t, "exact", report.Solver)
		assert.True(t, report.Solved)
		assert.Equal(t, []string{"2023-01-01T00:00:00Z", "2023-01-02T00:00:00Z"}, report.Solution)
		assert.Len(t, report.ProblemHash, 64)
		assert.Empty(t, report.RunID)
	})

	t.Run("parallel solver", func(t *testing.T) {
		stdout, _, err := execute(t, "solve", writeProblemFile(t, solvableDoc), "--parallel", "2", "--format", "json")
		require.NoError(t, err)

		var report SolveReport
		require.NoError(t, json.Unmarshal(decodeResponse(t, stdout).Data, &report))
		assert.Equal(t, "parallel", report.Solver)
		assert.True(t, report.Solved)
	})

	t.Run("local solver", func(t *testing.T) {
		stdout, _, err := execute(t, "solve", writeProblemFile(t, solvableDoc), "--local", "--format", "json")
		require.NoError(t, err)

		var report SolveReport
		require.NoError(t, json.Unmarshal(decodeResponse(t, stdout).Data, &report))
		assert.Equal(t, "local", report.Solver)
		assert.True(t, report.Solved)
		assert.Len(t, report.Solution, 2)
	})

	t.Run("local and parallel are mutually exclusive", func(t *testing.T) {
		_, _, err := execute(t, "solve", writeProblemFile(t, solvableDoc), "--local", "--parallel", "2")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("missing problem file", func(t *testing.T) {
		_, _, err := execute(t, "solve", filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})

	t.Run("records the run when a database is given", func(t *testing.T) {
		db := filepath.Join(t.TempDir(), "runs.db")

		stdout, _, err := execute(t, "solve", writeProblemFile(t, solvableDoc), "--db", db, "--format", "json")
		require.NoError(t, err)

		var report SolveReport
		require.NoError(t, json.Unmarshal(decodeResponse(t, stdout).Data, &report))
		assert.NotEmpty(t, report.RunID)

		stdout, _, err = execute(t, "history", "--db", db, "--format", "json")
		require.NoError(t, err)

		var entries []HistoryEntry
		require.NoError(t, json.Unmarshal(decodeResponse(t, stdout).Data, &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, report.RunID, entries[0].RunID)
		assert.Equal(t, "standup", entries[0].Problem)
		assert.Equal(t, report.ProblemHash, entries[0].ProblemHash)
		assert.True(t, entries[0].Solved)
	})
}

func TestCheckCommand(t *testing.T) {
	t.Run("shows pruned domains", func(t *testing.T) {
		stdout, _, err := execute(t, "check", writeProblemFile(t, solvableDoc))
		require.NoError(t, err)

		assert.Contains(t, stdout, "Pruned 2 value(s)")
		assert.Contains(t, stdout, "meeting 0: 2 value(s)")
		assert.Contains(t, stdout, "meeting 1: 2 value(s)")
	})

	t.Run("reports a wipeout as unsatisfiable", func(t *testing.T) {
		stdout, _, err := execute(t, "check", writeProblemFile(t, unsatisfiableDoc), "--format", "json")
		require.NoError(t, err)

		var report CheckReport
		require.NoError(t, json.Unmarshal(decodeResponse(t, stdout).Data, &report))
		assert.False(t, report.Satisfiable)
		assert.Equal(t, 6, report.PrunedValues)
		require.Len(t, report.Domains, 2)
		assert.Zero(t, report.Domains[0].Size)
		assert.Zero(t, report.Domains[1].Size)
	})
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		stdout, _, err := execute(t, "validate", writeProblemFile(t, solvableDoc))
		require.NoError(t, err)
		assert.Contains(t, stdout, "Valid.")
	})

	t.Run("valid document as json", func(t *testing.T) {
		stdout, _, err := execute(t, "validate", writeProblemFile(t, solvableDoc), "--format", "json")
		require.NoError(t, err)

		var result ValidationResult
		require.NoError(t, json.Unmarshal(decodeResponse(t, stdout).Data, &result))
		assert.True(t, result.Valid)
		assert.Empty(t, result.Issues)
	})

	t.Run("schema violations exit 1 and list every issue", func(t *testing.T) {
		path := writeProblemFile(t, `
meetings: -1
dates: { start: 2023-01-01, days: 2 }
`)
		stdout, _, err := execute(t, "validate", path)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, stdout, "Invalid:")
		assert.Contains(t, stdout, "[SCHEMA_ERROR]")
	})

	t.Run("schema violations as json use the error envelope", func(t *testing.T) {
		path := writeProblemFile(t, `
meetings: -1
dates: { start: 2023-01-01, days: 2 }
`)
		stdout, _, err := execute(t, "validate", path, "--format", "json")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		resp := decodeResponse(t, stdout)
		assert.Equal(t, "error", resp.Status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
		assert.NotNil(t, resp.Error.Details)
	})

	t.Run("missing file exits 2", func(t *testing.T) {
		_, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestHistoryCommand(t *testing.T) {
	t.Run("empty database", func(t *testing.T) {
		db := filepath.Join(t.TempDir(), "runs.db")
		stdout, _, err := execute(t, "history", "--db", db)
		require.NoError(t, err)
		assert.Contains(t, stdout, "No recorded runs.")
	})

	t.Run("db flag is required", func(t *testing.T) {
		_, _, err := execute(t, "history")
		assert.Error(t, err)
	})
}

func TestRootCommand(t *testing.T) {
	t.Run("rejects unknown formats", func(t *testing.T) {
		_, _, err := execute(t, "validate", "whatever.yaml", "--format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "wrapped", os.ErrNotExist)))
	assert.Equal(t, ExitFailure, GetExitCode(os.ErrClosed))
}
