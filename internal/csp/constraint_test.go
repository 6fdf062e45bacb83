package csp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnary(t *testing.T) {
	day := date(t, "2023-01-03")

	t.Run("valid", func(t *testing.T) {
		c, err := NewUnary(0, OpEq, day)
		require.NoError(t, err)

		assert.Equal(t, 1, c.Arity())
		assert.Equal(t, 0, c.Left())
		assert.Equal(t, OpEq, c.Op())

		_, ok := c.RightVar()
		assert.False(t, ok)

		got, ok := c.RightTime()
		require.True(t, ok)
		assert.True(t, got.Equal(day))
	})

	t.Run("normalizes the literal", func(t *testing.T) {
		est := time.FixedZone("EST", -5*3600)
		c, err := NewUnary(0, OpEq, time.Date(2023, 1, 2, 19, 0, 0, 0, est))
		require.NoError(t, err)

		got, ok := c.RightTime()
		require.True(t, ok)
		assert.Equal(t, time.UTC, got.Location())
		assert.Equal(t, time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("negative variable", func(t *testing.T) {
		_, err := NewUnary(-1, OpEq, day)
		assert.True(t, IsConstructionError(err))

		var ce *ConstraintError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, ErrCodeNegativeVariable, ce.Code)
	})

	t.Run("invalid operator", func(t *testing.T) {
		_, err := NewUnary(0, Operator(42), day)
		assert.True(t, IsConstructionError(err))
	})
}

func TestNewBinary(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, err := NewBinary(0, OpLt, 1)
		require.NoError(t, err)

		assert.Equal(t, 2, c.Arity())
		assert.Equal(t, 0, c.Left())

		r, ok := c.RightVar()
		require.True(t, ok)
		assert.Equal(t, 1, r)

		_, ok = c.RightTime()
		assert.False(t, ok)
	})

	t.Run("self-referential is allowed", func(t *testing.T) {
		c, err := NewBinary(2, OpEq, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, c.Arity())
	})

	t.Run("negative variables", func(t *testing.T) {
		_, err := NewBinary(-1, OpLt, 1)
		assert.True(t, IsConstructionError(err))

		_, err = NewBinary(0, OpLt, -1)
		assert.True(t, IsConstructionError(err))
	})
}

func TestSatisfiedByValues(t *testing.T) {
	d1 := date(t, "2023-01-01")
	d2 := date(t, "2023-01-02")

	t.Run("binary with explicit right value", func(t *testing.T) {
		c, err := NewBinary(0, OpLt, 1)
		require.NoError(t, err)

		ok, err := c.SatisfiedByValues(d1, d2)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = c.SatisfiedByValues(d2, d1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("binary without right value is a usage error", func(t *testing.T) {
		c, err := NewBinary(0, OpLt, 1)
		require.NoError(t, err)

		_, err = c.SatisfiedByValues(d1)
		assert.True(t, IsUsageError(err))

		var ce *ConstraintError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, ErrCodeMissingRightValue, ce.Code)
	})

	t.Run("unary falls back to its own literal", func(t *testing.T) {
		c, err := NewUnary(0, OpEq, d2)
		require.NoError(t, err)

		ok, err := c.SatisfiedByValues(d2)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = c.SatisfiedByValues(d1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unary with explicit right overrides the literal", func(t *testing.T) {
		c, err := NewUnary(0, OpEq, d2)
		require.NoError(t, err)

		ok, err := c.SatisfiedByValues(d1, d1)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestSatisfiedByAssignment(t *testing.T) {
	d1 := date(t, "2023-01-01")
	d2 := date(t, "2023-01-02")

	unary, err := NewUnary(0, OpEq, d1)
	require.NoError(t, err)
	binary, err := NewBinary(0, OpLt, 1)
	require.NoError(t, err)

	t.Run("unassigned variables never falsify", func(t *testing.T) {
		a := NewAssignment(2)
		assert.True(t, unary.SatisfiedByAssignment(a))
		assert.True(t, binary.SatisfiedByAssignment(a))

		a.Assign(0, d2)
		assert.True(t, binary.SatisfiedByAssignment(a), "right side still unassigned")
	})

	t.Run("fully bound constraints are evaluated", func(t *testing.T) {
		a := NewAssignment(2)
		a.Assign(0, d1)
		a.Assign(1, d2)

		assert.True(t, unary.SatisfiedByAssignment(a))
		assert.True(t, binary.SatisfiedByAssignment(a))

		a.Assign(0, d2)
		assert.False(t, unary.SatisfiedByAssignment(a))
		assert.False(t, binary.SatisfiedByAssignment(a))
	})

	t.Run("out-of-range variables never falsify", func(t *testing.T) {
		far, err := NewBinary(0, OpLt, 7)
		require.NoError(t, err)

		a := NewAssignment(2)
		a.Assign(0, d2)
		assert.True(t, far.SatisfiedByAssignment(a))
	})
}

func TestReverse(t *testing.T) {
	d1 := date(t, "2023-01-01")
	d2 := date(t, "2023-01-02")

	t.Run("swaps sides and mirrors the operator", func(t *testing.T) {
		c, err := NewBinary(0, OpLt, 1)
		require.NoError(t, err)

		rev, err := c.Reverse()
		require.NoError(t, err)
		assert.Equal(t, 1, rev.Left())
		assert.Equal(t, OpGt, rev.Op())
		r, ok := rev.RightVar()
		require.True(t, ok)
		assert.Equal(t, 0, r)
	})

	t.Run("preserves truth for every operator", func(t *testing.T) {
		for op := Operator(0); op < numOperators; op++ {
			c, err := NewBinary(0, op, 1)
			require.NoError(t, err)
			rev, err := c.Reverse()
			require.NoError(t, err)

			for _, pair := range [][2]time.Time{{d1, d2}, {d2, d1}, {d1, d1}} {
				want, err := c.SatisfiedByValues(pair[0], pair[1])
				require.NoError(t, err)
				got, err := rev.SatisfiedByValues(pair[1], pair[0])
				require.NoError(t, err)
				assert.Equal(t, want, got, "operator %s over %v", op, pair)
			}
		}
	})

	t.Run("double reverse is identity", func(t *testing.T) {
		c, err := NewBinary(3, OpGe, 5)
		require.NoError(t, err)

		rev, err := c.Reverse()
		require.NoError(t, err)
		back, err := rev.Reverse()
		require.NoError(t, err)
		assert.Equal(t, c, back)
	})

	t.Run("unary is a usage error", func(t *testing.T) {
		c, err := NewUnary(0, OpEq, d1)
		require.NoError(t, err)

		_, err = c.Reverse()
		assert.True(t, IsUsageError(err))

		var ce *ConstraintError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, ErrCodeReverseUnary, ce.Code)
	})
}

func TestConstraintString(t *testing.T) {
	u, err := NewUnary(0, OpEq, date(t, "2023-01-03"))
	require.NoError(t, err)
	assert.Equal(t, "0 == 2023-01-03T00:00:00Z", u.String())

	b, err := NewBinary(1, OpNe, 2)
	require.NoError(t, err)
	assert.Equal(t, "1 != 2", b.String())
}
