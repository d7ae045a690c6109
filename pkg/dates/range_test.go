package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planstack/importsync/pkg/dates"
	"github.com/planstack/importsync/pkg/errors"
)

func TestNewRange(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		r, err := dates.NewRange(dates.Date(2025, time.March, 10), dates.Date(2025, time.March, 20))
		require.NoError(t, err)
		assert.Equal(t, "2025-03-10..2025-03-20", r.String())
	})

	t.Run("single day is valid", func(t *testing.T) {
		r, err := dates.NewRange(dates.Date(2025, time.March, 10), dates.Date(2025, time.March, 10))
		require.NoError(t, err)
		assert.Equal(t, 1, r.Days())
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		_, err := dates.NewRange(dates.Date(2025, time.March, 20), dates.Date(2025, time.March, 10))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidRange(err))
	})
}

func TestRangeOverlaps(t *testing.T) {
	base := dates.Range{
		Start: dates.Date(2025, time.March, 10),
		End:   dates.Date(2025, time.March, 20),
	}

	tests := []struct {
		name  string
		other dates.Range
		want  bool
	}{
		{
			name:  "contained",
			other: dates.Range{Start: dates.Date(2025, time.March, 12), End: dates.Date(2025, time.March, 15)},
			want:  true,
		},
		{
			name:  "partial overlap",
			other: dates.Range{Start: dates.Date(2025, time.March, 15), End: dates.Date(2025, time.March, 25)},
			want:  true,
		},
		{
			name:  "touching endpoints overlap",
			other: dates.Range{Start: dates.Date(2025, time.March, 20), End: dates.Date(2025, time.March, 25)},
			want:  true,
		},
		{
			name:  "disjoint after",
			other: dates.Range{Start: dates.Date(2025, time.March, 21), End: dates.Date(2025, time.March, 25)},
			want:  false,
		},
		{
			name:  "disjoint before",
			other: dates.Range{Start: dates.Date(2025, time.March, 1), End: dates.Date(2025, time.March, 9)},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestRangeIntersect(t *testing.T) {
	t.Run("partial overlap", func(t *testing.T) {
		a := dates.Range{Start: dates.Date(2025, time.March, 10), End: dates.Date(2025, time.March, 20)}
		b := dates.Range{Start: dates.Date(2025, time.March, 15), End: dates.Date(2025, time.March, 25)}

		got, ok := a.Intersect(b)
		require.True(t, ok)
		assert.Equal(t, "2025-03-15..2025-03-20", got.String())
	})

	t.Run("touching endpoints give one day", func(t *testing.T) {
		a := dates.Range{Start: dates.Date(2025, time.March, 10), End: dates.Date(2025, time.March, 20)}
		b := dates.Range{Start: dates.Date(2025, time.March, 20), End: dates.Date(2025, time.March, 25)}

		got, ok := a.Intersect(b)
		require.True(t, ok)
		assert.Equal(t, 1, got.Days())
	})

	t.Run("disjoint", func(t *testing.T) {
		a := dates.Range{Start: dates.Date(2025, time.March, 10), End: dates.Date(2025, time.March, 20)}
		b := dates.Range{Start: dates.Date(2025, time.March, 21), End: dates.Date(2025, time.March, 25)}

		_, ok := a.Intersect(b)
		assert.False(t, ok)
	})
}

func TestRangeContains(t *testing.T) {
	r := dates.Range{Start: dates.Date(2025, time.March, 10), End: dates.Date(2025, time.March, 20)}

	assert.True(t, r.Contains(dates.Date(2025, time.March, 10)))
	assert.True(t, r.Contains(dates.Date(2025, time.March, 20)))
	assert.True(t, r.Contains(dates.Date(2025, time.March, 15)))
	assert.False(t, r.Contains(dates.Date(2025, time.March, 9)))
	assert.False(t, r.Contains(dates.Date(2025, time.March, 21)))
}

func TestRangeDays(t *testing.T) {
	r := dates.Range{Start: dates.Date(2025, time.March, 10), End: dates.Date(2025, time.March, 20)}
	assert.Equal(t, 11, r.Days())

	inverted := dates.Range{Start: dates.Date(2025, time.March, 20), End: dates.Date(2025, time.March, 10)}
	assert.Equal(t, 0, inverted.Days())
}

func TestRangeIsZero(t *testing.T) {
	assert.True(t, dates.Range{}.IsZero())
	assert.False(t, dates.Range{Start: dates.Date(2025, time.March, 10)}.IsZero())
}
