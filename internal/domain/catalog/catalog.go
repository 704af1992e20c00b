package catalog

import (
	"context"
	"errors"

	"wayfare/internal/domain/shared/money"
)

var (
	ErrPackageNotFound     = errors.New("catalog: travel package not found")
	ErrDestinationNotFound = errors.New("catalog: destination not found")
)

type PackageID string

type DestinationID string

// TravelPackage is the read model this core needs from the package catalog.
// The catalog itself (CRUD, media, itinerary content) is an external
// collaborator; only the fields pricing and availability consult live here.
type TravelPackage struct {
	ID            PackageID
	DestinationID DestinationID
	Name          string
	IsActive      bool
	AdultPrice    money.Money
	// Per-slot booking counters maintained by the catalog. The availability
	// check does not consult them; occupancy is derived from stored
	// bookings over the requested window.
	MaxBookings     int
	CurrentBookings int
}

// Destination is the read model for a destination record.
type Destination struct {
	ID       DestinationID
	Name     string
	Country  string
	IsActive bool
}

type PackageRepository interface {
	ByID(ctx context.Context, id PackageID) (*TravelPackage, error)
}

type DestinationRepository interface {
	ByID(ctx context.Context, id DestinationID) (*Destination, error)
}
