package problem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProblem(t *testing.T, src string) *Problem {
	t.Helper()
	p, err := decodeDocument(t, src).Build()
	require.NoError(t, err)
	return p
}

func TestProblemHash(t *testing.T) {
	base := `
name: base
meetings: 2
dates: { start: 2023-01-01, days: 3 }
constraints:
  - { left: 0, op: "<", right: 1 }
  - { left: 1, op: "==", right: 2023-01-02 }
`

	t.Run("stable across calls", func(t *testing.T) {
		p := buildProblem(t, base)
		h1, err := p.Hash()
		require.NoError(t, err)
		h2, err := p.Hash()
		require.NoError(t, err)

		assert.Equal(t, h1, h2)
		assert.Len(t, h1, 64)
	})

	t.Run("name does not affect the hash", func(t *testing.T) {
		a := buildProblem(t, base)
		renamed := buildProblem(t, `
name: renamed
meetings: 2
dates: { start: 2023-01-01, days: 3 }
constraints:
  - { left: 0, op: "<", right: 1 }
  - { left: 1, op: "==", right: 2023-01-02 }
`)
		ha, err := a.Hash()
		require.NoError(t, err)
		hb, err := renamed.Hash()
		require.NoError(t, err)
		assert.Equal(t, ha, hb)
	})

	t.Run("constraint order does not affect the hash", func(t *testing.T) {
		a := buildProblem(t, base)
		reordered := buildProblem(t, `
meetings: 2
dates: { start: 2023-01-01, days: 3 }
constraints:
  - { left: 1, op: "==", right: 2023-01-02 }
  - { left: 0, op: "<", right: 1 }
`)
		ha, err := a.Hash()
		require.NoError(t, err)
		hb, err := reordered.Hash()
		require.NoError(t, err)
		assert.Equal(t, ha, hb)
	})

	t.Run("date spelling does not affect the hash", func(t *testing.T) {
		ranged := buildProblem(t, `
meetings: 1
dates: { start: 2023-01-01, days: 2 }
`)
		listed := buildProblem(t, `
meetings: 1
dates: { list: ["2023-01-02T00:00:00Z", "2023-01-01"] }
`)
		ha, err := ranged.Hash()
		require.NoError(t, err)
		hb, err := listed.Hash()
		require.NoError(t, err)
		assert.Equal(t, ha, hb)
	})

	t.Run("semantic changes change the hash", func(t *testing.T) {
		a := buildProblem(t, base)
		hashes := map[string]bool{}

		ha, err := a.Hash()
		require.NoError(t, err)
		hashes[ha] = true

		for _, variant := range []string{
			// One more meeting.
			`
meetings: 3
dates: { start: 2023-01-01, days: 3 }
constraints:
  - { left: 0, op: "<", right: 1 }
  - { left: 1, op: "==", right: 2023-01-02 }
`,
			// One more candidate day.
			`
meetings: 2
dates: { start: 2023-01-01, days: 4 }
constraints:
  - { left: 0, op: "<", right: 1 }
  - { left: 1, op: "==", right: 2023-01-02 }
`,
			// Different operator.
			`
meetings: 2
dates: { start: 2023-01-01, days: 3 }
constraints:
  - { left: 0, op: "<=", right: 1 }
  - { left: 1, op: "==", right: 2023-01-02 }
`,
		} {
			h, err := buildProblem(t, variant).Hash()
			require.NoError(t, err)
			assert.False(t, hashes[h], "hash collision for variant %s", variant)
			hashes[h] = true
		}
	})
}

func TestMarshalCanonical(t *testing.T) {
	t.Run("keys sorted, no html escaping", func(t *testing.T) {
		got, err := marshalCanonical(map[string]any{
			"b": "x<y",
			"a": 1,
		})
		require.NoError(t, err)
		assert.Equal(t, `{"a":1,"b":"x<y"}`, string(got))
	})

	t.Run("nested arrays", func(t *testing.T) {
		got, err := marshalCanonical([]any{1, "two", true})
		require.NoError(t, err)
		assert.Equal(t, `[1,"two",true]`, string(got))
	})

	t.Run("floats and nulls are forbidden", func(t *testing.T) {
		_, err := marshalCanonical(map[string]any{"x": 1.5})
		assert.Error(t, err)
		_, err = marshalCanonical(map[string]any{"x": nil})
		assert.Error(t, err)
	})

	t.Run("strings are NFC normalized", func(t *testing.T) {
		composed, err := marshalCanonical("caf\u00e9")
		require.NoError(t, err)
		decomposed, err := marshalCanonical("cafe\u0301")
		require.NoError(t, err)
		assert.Equal(t, composed, decomposed)
	})
}
