package csp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("converts to UTC", func(t *testing.T) {
		est := time.FixedZone("EST", -5*3600)
		in := time.Date(2023, 1, 2, 19, 0, 0, 0, est)

		out := Normalize(in)
		assert.Equal(t, time.UTC, out.Location())
		assert.True(t, out.Equal(in))
	})

	t.Run("equal instants become map-key equal", func(t *testing.T) {
		est := time.FixedZone("EST", -5*3600)
		utc := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
		shifted := time.Date(2023, 1, 2, 19, 0, 0, 0, est)
		withMono := time.Now()

		assert.Equal(t, Normalize(utc), Normalize(shifted))
		assert.Equal(t, Normalize(withMono), Normalize(withMono.Round(0)))
	})
}

func TestNormalizeAll(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	in := []time.Time{
		time.Date(2023, 1, 2, 19, 0, 0, 0, est),
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	out := NormalizeAll(in)
	assert.Len(t, out, 2)
	assert.Equal(t, time.UTC, out[0].Location())
	assert.True(t, out[0].Equal(in[0]))
	assert.True(t, out[1].Equal(in[1]))

	// Input stays untouched.
	assert.Equal(t, est, in[0].Location())
}
