package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfare/internal/domain/booking"
	"wayfare/internal/domain/pricing"
	"wayfare/internal/domain/shared/daterange"
)

func window(t *testing.T, startDay, endDay int) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, time.October, startDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.October, endDay, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return dr
}

func bookingWith(t *testing.T, travelers int, startDay, endDay int) *booking.Booking {
	t.Helper()
	return &booking.Booking{
		Travelers: pricing.Travelers{Adults: travelers},
		Dates:     window(t, startDay, endDay),
	}
}

func TestOccupancySumsOverlappingTravelers(t *testing.T) {
	existing := []*booking.Booking{
		bookingWith(t, 10, 1, 5),
		bookingWith(t, 20, 4, 10),
		bookingWith(t, 15, 20, 25), // outside the window
		nil,
	}
	assert.Equal(t, 30, Occupancy(existing, window(t, 3, 8)))
}

func TestOccupancyCountsSharedBoundaryDay(t *testing.T) {
	existing := []*booking.Booking{bookingWith(t, 5, 1, 10)}
	// Request starting on the other trip's return day still contends.
	assert.Equal(t, 5, Occupancy(existing, window(t, 10, 15)))
	assert.Equal(t, 0, Occupancy(existing, window(t, 11, 15)))
}

func TestCheckAgainstCeiling(t *testing.T) {
	// 45 occupied plus 10 requested breaks the 50 ceiling.
	err := Check(45, 10)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 45, capErr.Occupied)
	assert.Equal(t, 10, capErr.Requested)
	assert.Equal(t, CapacityCeiling, capErr.Ceiling)

	// Exactly at the ceiling is allowed.
	assert.NoError(t, Check(45, 5))
	assert.NoError(t, Check(0, CapacityCeiling))
	assert.ErrorIs(t, Check(CapacityCeiling, 1), ErrCapacityExceeded)
}
