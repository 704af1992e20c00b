package memory

import (
	"context"
	"errors"

	"wayfare/internal/app/uow"
	domainbooking "wayfare/internal/domain/booking"
	domaincatalog "wayfare/internal/domain/catalog"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	BookingRepo     domainbooking.Repository
	PackageRepo     domaincatalog.PackageRepository
	DestinationRepo domaincatalog.DestinationRepository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is
// provided but the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.BookingRepo == nil || f.PackageRepo == nil || f.DestinationRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		bookings:     f.BookingRepo,
		packages:     f.PackageRepo,
		destinations: f.DestinationRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	bookings     domainbooking.Repository
	packages     domaincatalog.PackageRepository
	destinations domaincatalog.DestinationRepository
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Packages() domaincatalog.PackageRepository {
	return u.packages
}

func (u *Unit) Destinations() domaincatalog.DestinationRepository {
	return u.destinations
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
