package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domainbooking "wayfare/internal/domain/booking"
	domaincatalog "wayfare/internal/domain/catalog"
	domainrange "wayfare/internal/domain/shared/daterange"
)

// ErrConcurrentUpdate mirrors the Mongo repository's optimistic-write
// failure so handlers behave identically against either backend.
var ErrConcurrentUpdate = fmt.Errorf("memory: %w", domainbooking.ErrConcurrentUpdate)

// BookingRepository is an in-memory implementation used by tests and the
// local demo wiring. Aggregates are deep-copied on the way in and out so
// callers never alias stored state.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return cloneBooking(stored), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.items[b.ID]; ok && stored.Version != b.Version {
		return ErrConcurrentUpdate
	}
	clone := cloneBooking(b)
	clone.Version = b.Version + 1
	r.items[b.ID] = clone
	b.Version = clone.Version
	return nil
}

func (r *BookingRepository) FindOverlapping(ctx context.Context, packageID domaincatalog.PackageID, window domainrange.DateRange, exclude []domainbooking.Status) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	excluded := make(map[domainbooking.Status]struct{}, len(exclude))
	for _, s := range exclude {
		excluded[s] = struct{}{}
	}
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.PackageID != packageID {
			continue
		}
		if _, skip := excluded[b.Status]; skip {
			continue
		}
		if !b.Dates.Overlaps(window) {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	return out, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.UserID == userID {
			out = append(out, cloneBooking(b))
		}
	}
	sortByCreation(out)
	return out, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0, len(r.items))
	for _, b := range r.items {
		out = append(out, cloneBooking(b))
	}
	sortByCreation(out)
	return out, nil
}

func sortByCreation(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	clone := *b
	clone.Payment.Transactions = append([]domainbooking.Transaction(nil), b.Payment.Transactions...)
	clone.Reviews = append([]domainbooking.Review(nil), b.Reviews...)
	clone.ClearEvents()
	return &clone
}

// PackageRepository keeps catalog package read models in memory.
type PackageRepository struct {
	mu    sync.RWMutex
	items map[domaincatalog.PackageID]domaincatalog.TravelPackage
}

func NewPackageRepository() *PackageRepository {
	return &PackageRepository{items: make(map[domaincatalog.PackageID]domaincatalog.TravelPackage)}
}

func (r *PackageRepository) Put(pkg domaincatalog.TravelPackage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[pkg.ID] = pkg
}

func (r *PackageRepository) ByID(ctx context.Context, id domaincatalog.PackageID) (*domaincatalog.TravelPackage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pkg, ok := r.items[id]
	if !ok {
		return nil, domaincatalog.ErrPackageNotFound
	}
	return &pkg, nil
}

// DestinationRepository keeps destination read models in memory.
type DestinationRepository struct {
	mu    sync.RWMutex
	items map[domaincatalog.DestinationID]domaincatalog.Destination
}

func NewDestinationRepository() *DestinationRepository {
	return &DestinationRepository{items: make(map[domaincatalog.DestinationID]domaincatalog.Destination)}
}

func (r *DestinationRepository) Put(dest domaincatalog.Destination) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[dest.ID] = dest
}

func (r *DestinationRepository) ByID(ctx context.Context, id domaincatalog.DestinationID) (*domaincatalog.Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dest, ok := r.items[id]
	if !ok {
		return nil, domaincatalog.ErrDestinationNotFound
	}
	return &dest, nil
}
