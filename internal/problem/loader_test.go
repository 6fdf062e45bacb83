package problem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProblem(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

const validDoc = `
name: sprint-planning
meetings: 2
dates:
  start: 2023-01-01
  days: 5
constraints:
  - { left: 0, op: "<", right: 1 }
`

func TestLoad(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		p, err := Load(writeProblem(t, validDoc))
		require.NoError(t, err)

		assert.Equal(t, "sprint-planning", p.Name)
		assert.Equal(t, 2, p.Meetings)
		assert.Len(t, p.Candidates, 5)
		assert.Equal(t, 1, p.Constraints.Len())
	})

	t.Run("date list form", func(t *testing.T) {
		p, err := Load(writeProblem(t, `
meetings: 1
dates:
  list: ["2023-01-05", "2023-01-01"]
`))
		require.NoError(t, err)
		require.Len(t, p.Candidates, 2)
		assert.True(t, p.Candidates[0].Before(p.Candidates[1]))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)

		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeNotFound, le.Code)
	})

	t.Run("schema violation", func(t *testing.T) {
		_, err := Load(writeProblem(t, `
meetings: -1
dates: { start: 2023-01-01, days: 2 }
`))
		require.Error(t, err)

		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeSchema, le.Code)
	})

	t.Run("unparseable yaml", func(t *testing.T) {
		_, err := Load(writeProblem(t, "meetings: [unclosed"))
		require.Error(t, err)

		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeParse, le.Code)
	})

	t.Run("build failure", func(t *testing.T) {
		_, err := Load(writeProblem(t, `
meetings: 1
dates: { start: 2023-01-01, days: 2 }
constraints:
  - { left: 0, op: "<", right: 4 }
`))
		require.Error(t, err)

		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeBuild, le.Code)
	})
}

func TestValidate(t *testing.T) {
	t.Run("valid document returns nil", func(t *testing.T) {
		assert.Nil(t, Validate(writeProblem(t, validDoc)))
	})

	t.Run("collects multiple schema errors", func(t *testing.T) {
		errs := Validate(writeProblem(t, `
meetings: -1
dates: { start: 2023-01-01, days: 0 }
`))
		require.NotEmpty(t, errs)
		assert.GreaterOrEqual(t, len(errs), 2)
		for _, err := range errs {
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, ErrCodeSchema, le.Code)
		}
	})

	t.Run("reports build errors after a clean schema pass", func(t *testing.T) {
		errs := Validate(writeProblem(t, `
meetings: 1
dates: { start: 2023-01-01, days: 2 }
constraints:
  - { left: 0, op: "==", right: 9 }
`))
		require.Len(t, errs, 1)

		var le *LoadError
		require.ErrorAs(t, errs[0], &le)
		assert.Equal(t, ErrCodeBuild, le.Code)
	})
}
