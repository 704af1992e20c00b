package availability

import (
	"fmt"

	"wayfare/internal/domain/booking"
	"wayfare/internal/domain/shared/daterange"
)

// CapacityCeiling is the maximum aggregate traveler count allowed across
// overlapping bookings for one package. The package catalog keeps its own
// per-slot counters; this checker derives occupancy from stored bookings
// instead.
const CapacityCeiling = 50

// CapacityError reports a request that would push the overlapping window
// past the ceiling.
type CapacityError struct {
	Occupied  int
	Requested int
	Ceiling   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("availability: capacity exceeded: %d occupied + %d requested > %d", e.Occupied, e.Requested, e.Ceiling)
}

// ErrCapacityExceeded matches any CapacityError through errors.Is.
var ErrCapacityExceeded = &CapacityError{}

func (e *CapacityError) Is(target error) bool {
	_, ok := target.(*CapacityError)
	return ok
}

// Occupancy sums the traveler counts of bookings overlapping the window.
// Callers pass bookings already filtered to active statuses.
func Occupancy(existing []*booking.Booking, window daterange.DateRange) int {
	total := 0
	for _, b := range existing {
		if b == nil {
			continue
		}
		if b.Dates.Overlaps(window) {
			total += b.Travelers.Total()
		}
	}
	return total
}

// Check validates the request against the ceiling.
func Check(occupied, requested int) error {
	if occupied+requested > CapacityCeiling {
		return &CapacityError{Occupied: occupied, Requested: requested, Ceiling: CapacityCeiling}
	}
	return nil
}
