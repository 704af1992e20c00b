package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsInvertedRange(t *testing.T) {
	_, err := New(day(10), day(5))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(day(10), day(10))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(time.Time{}, day(5))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestOverlapsIsInclusive(t *testing.T) {
	a, err := New(day(1), day(10))
	require.NoError(t, err)

	sharesReturnDay, err := New(day(10), day(15))
	require.NoError(t, err)
	assert.True(t, a.Overlaps(sharesReturnDay))
	assert.True(t, sharesReturnDay.Overlaps(a))

	disjoint, err := New(day(11), day(15))
	require.NoError(t, err)
	assert.False(t, a.Overlaps(disjoint))

	contained, err := New(day(3), day(5))
	require.NoError(t, err)
	assert.True(t, a.Overlaps(contained))
}

func TestDurationDaysRoundsUp(t *testing.T) {
	dr, err := New(day(1), day(6))
	require.NoError(t, err)
	assert.Equal(t, 5, dr.DurationDays())

	partial, err := New(day(1), day(6).Add(6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 6, partial.DurationDays())
}

func TestDaysUntil(t *testing.T) {
	dr, err := New(day(20), day(25))
	require.NoError(t, err)

	assert.Equal(t, 10, dr.DaysUntil(day(10)))
	// A partial day remaining rounds up to the next whole day.
	assert.Equal(t, 11, dr.DaysUntil(day(10).Add(-6*time.Hour)))
	assert.Equal(t, 0, dr.DaysUntil(day(20)))
	assert.Equal(t, -2, dr.DaysUntil(day(22)))
}

func TestContainsDate(t *testing.T) {
	dr, err := New(day(5), day(10))
	require.NoError(t, err)

	assert.True(t, dr.ContainsDate(day(5)))
	assert.True(t, dr.ContainsDate(day(10)))
	assert.False(t, dr.ContainsDate(day(11)))
	assert.False(t, dr.ContainsDate(day(4)))
}
