package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "wayfare/internal/domain/booking"
	domainpricing "wayfare/internal/domain/pricing"
	domainrange "wayfare/internal/domain/shared/daterange"
	"wayfare/internal/domain/shared/money"
)

func makeBooking(t *testing.T, id string, startDay, endDay int) *domainbooking.Booking {
	t.Helper()
	start := time.Date(2026, time.November, startDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.November, endDay, 0, 0, 0, 0, time.UTC)
	dates, err := domainrange.New(start, end)
	require.NoError(t, err)
	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:            domainbooking.BookingID(id),
		Code:          domainbooking.NewCode(time.Now()),
		UserID:        "user-1",
		PackageID:     "pkg-1",
		DestinationID: "dest-1",
		Travelers:     domainpricing.Travelers{Adults: 2},
		Dates:         dates,
		Accommodation: domainbooking.Accommodation{Type: domainpricing.AccommodationBudget, Rooms: 1},
		Pricing:       domainpricing.Quote{Total: money.Must(100000, "INR"), Currency: "INR"},
		CreatedAt:     time.Now().UTC(),
	})
	require.NoError(t, err)
	bk.ClearEvents()
	return bk
}

func TestBookingRepositoryOptimisticVersioning(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	bk := makeBooking(t, "bk-1", 1, 5)

	require.NoError(t, repo.Save(ctx, bk))
	assert.Equal(t, int64(1), bk.Version)

	// Two readers load the same version; the slower writer loses.
	first, err := repo.ByID(ctx, "bk-1")
	require.NoError(t, err)
	second, err := repo.ByID(ctx, "bk-1")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, first))
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.ErrorIs(t, err, domainbooking.ErrConcurrentUpdate)
}

func TestBookingRepositoryClonesOnReturn(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, makeBooking(t, "bk-1", 1, 5)))

	loaded, err := repo.ByID(ctx, "bk-1")
	require.NoError(t, err)
	loaded.UserID = "intruder"
	loaded.Payment.Transactions = append(loaded.Payment.Transactions, domainbooking.Transaction{TransactionID: "fake"})

	fresh, err := repo.ByID(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", fresh.UserID)
	assert.Empty(t, fresh.Payment.Transactions)
}

func TestFindOverlappingFiltersStatusAndWindow(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	overlapping := makeBooking(t, "bk-1", 1, 10)
	require.NoError(t, repo.Save(ctx, overlapping))

	cancelled := makeBooking(t, "bk-2", 1, 10)
	_, _, err := cancelled.Cancel("released", time.Now().UTC())
	require.NoError(t, err)
	cancelled.ClearEvents()
	require.NoError(t, repo.Save(ctx, cancelled))

	disjoint := makeBooking(t, "bk-3", 20, 25)
	require.NoError(t, repo.Save(ctx, disjoint))

	window, err := domainrange.New(
		time.Date(2026, time.November, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.November, 12, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	found, err := repo.FindOverlapping(ctx, "pkg-1", window, []domainbooking.Status{
		domainbooking.StatusCancelled, domainbooking.StatusRefunded,
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, domainbooking.BookingID("bk-1"), found[0].ID)
}

func TestListByUserSortsByCreation(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	older := makeBooking(t, "bk-1", 1, 5)
	older.CreatedAt = time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	newer := makeBooking(t, "bk-2", 1, 5)
	newer.CreatedAt = time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, newer))
	require.NoError(t, repo.Save(ctx, older))

	items, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domainbooking.BookingID("bk-1"), items[0].ID)
	assert.Equal(t, domainbooking.BookingID("bk-2"), items[1].ID)
}

func TestLockManagerSerializes(t *testing.T) {
	mgr := NewLockManager()
	ctx := context.Background()

	release, err := mgr.Acquire(ctx, "lock:a", time.Second)
	require.NoError(t, err)

	blockedCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = mgr.Acquire(blockedCtx, "lock:a", time.Second)
	assert.Error(t, err)

	release()
	release() // safe to call twice

	again, err := mgr.Acquire(ctx, "lock:a", time.Second)
	require.NoError(t, err)
	again()
}
