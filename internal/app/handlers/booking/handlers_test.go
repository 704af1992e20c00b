package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfare/internal/app/policies"
	domainavailability "wayfare/internal/domain/availability"
	domainbooking "wayfare/internal/domain/booking"
	domaincatalog "wayfare/internal/domain/catalog"
	domainpricing "wayfare/internal/domain/pricing"
	domainrange "wayfare/internal/domain/shared/daterange"
	"wayfare/internal/domain/shared/money"
	"wayfare/internal/infra/storage/memory"
)

type fakeGateway struct {
	mu      sync.Mutex
	charges []string
	fail    bool
}

func (g *fakeGateway) Charge(_ context.Context, _ money.Money, _ string, transactionID string) (policies.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return policies.ChargeResult{}, errors.New("declined")
	}
	g.charges = append(g.charges, transactionID)
	return policies.ChargeResult{GatewayTransactionID: "GW-" + transactionID}, nil
}

func (g *fakeGateway) chargeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charges)
}

type testEnv struct {
	bookings     *memory.BookingRepository
	packages     *memory.PackageRepository
	destinations *memory.DestinationRepository
	outbox       *memory.Outbox
	factory      memory.Factory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		bookings:     memory.NewBookingRepository(),
		packages:     memory.NewPackageRepository(),
		destinations: memory.NewDestinationRepository(),
		outbox:       memory.NewOutbox(),
	}
	env.factory = memory.Factory{
		BookingRepo:     env.bookings,
		PackageRepo:     env.packages,
		DestinationRepo: env.destinations,
	}
	env.packages.Put(domaincatalog.TravelPackage{
		ID:            "pkg-1",
		DestinationID: "dest-1",
		Name:          "Test Package",
		IsActive:      true,
		AdultPrice:    money.Must(100000, "INR"),
	})
	env.destinations.Put(domaincatalog.Destination{
		ID: "dest-1", Name: "Testville", Country: "IN", IsActive: true,
	})
	return env
}

func (env *testEnv) createCommand(id string) CreateBookingCommand {
	now := time.Now().UTC()
	return CreateBookingCommand{
		CommandID:     id,
		UserID:        "user-1",
		PackageID:     "pkg-1",
		DestinationID: "dest-1",
		Travelers:     domainpricing.Travelers{Adults: 2},
		Start:         now.AddDate(0, 0, 40),
		End:           now.AddDate(0, 0, 45),
		Accommodation: domainbooking.Accommodation{
			Type:  domainpricing.AccommodationMidRange,
			Rooms: 1,
		},
	}
}

// seedBooking persists a booking directly, bypassing the create handler.
func (env *testEnv) seedBooking(t *testing.T, id string, travelers int, paid int64) *domainbooking.Booking {
	t.Helper()
	now := time.Now().UTC()
	dates, err := domainrange.New(now.AddDate(0, 0, 40), now.AddDate(0, 0, 45))
	require.NoError(t, err)
	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:            domainbooking.BookingID(id),
		Code:          domainbooking.NewCode(now),
		UserID:        "user-1",
		PackageID:     "pkg-1",
		DestinationID: "dest-1",
		Travelers:     domainpricing.Travelers{Adults: travelers},
		Dates:         dates,
		Accommodation: domainbooking.Accommodation{Type: domainpricing.AccommodationMidRange, Rooms: 1},
		Pricing:       domainpricing.Quote{Total: money.Must(100000, "INR"), Currency: "INR"},
		CreatedAt:     now,
	})
	require.NoError(t, err)
	if paid > 0 {
		_, err = bk.RegisterPayment(domainbooking.Transaction{
			TransactionID: fmt.Sprintf("seed-%s", id),
			Amount:        money.Must(paid, "INR"),
			Method:        "card",
			Timestamp:     now,
		}, now)
		require.NoError(t, err)
	}
	bk.ClearEvents()
	require.NoError(t, env.bookings.Save(context.Background(), bk))
	return bk
}

func TestCreateBookingPersistsDraft(t *testing.T) {
	env := newTestEnv(t)
	h := &CreateBookingHandler{UoWFactory: env.factory, Outbox: env.outbox}

	result, err := h.Handle(context.Background(), env.createCommand("cmd-1"))
	require.NoError(t, err)
	assert.Regexp(t, domainbooking.CodePattern, result.BookingCode)
	// Two adults at 1000, mid-range: 3000 + 18% + 2% = 3600.
	assert.Equal(t, int64(360000), result.Total.Amount)

	stored, err := env.bookings.ByID(context.Background(), domainbooking.BookingID(result.BookingID))
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusDraft, stored.Status)
	assert.Equal(t, 5, stored.DurationDays)

	records := env.outbox.Pending()
	require.Len(t, records, 1)
	assert.Equal(t, "booking.created", records[0].Name)
}

func TestCreateBookingRejectsInactiveCatalog(t *testing.T) {
	env := newTestEnv(t)
	env.packages.Put(domaincatalog.TravelPackage{
		ID: "pkg-dormant", DestinationID: "dest-1", IsActive: false,
		AdultPrice: money.Must(100000, "INR"),
	})
	h := &CreateBookingHandler{UoWFactory: env.factory, Outbox: env.outbox}

	cmd := env.createCommand("cmd-1")
	cmd.PackageID = "pkg-dormant"
	_, err := h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domaincatalog.ErrPackageNotFound)

	cmd = env.createCommand("cmd-2")
	cmd.PackageID = "pkg-missing"
	_, err = h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domaincatalog.ErrPackageNotFound)
}

func TestCreateBookingRejectsPastStart(t *testing.T) {
	env := newTestEnv(t)
	h := &CreateBookingHandler{UoWFactory: env.factory, Outbox: env.outbox}

	cmd := env.createCommand("cmd-1")
	cmd.Start = time.Now().UTC().AddDate(0, 0, -2)
	_, err := h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainbooking.ErrStartInPast)
}

func TestCreateBookingVerifiesQuotedTotal(t *testing.T) {
	env := newTestEnv(t)
	h := &CreateBookingHandler{UoWFactory: env.factory, Outbox: env.outbox}

	cmd := env.createCommand("cmd-1")
	cmd.QuotedTotal = money.Must(360001, "INR") // within tolerance
	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	cmd = env.createCommand("cmd-2")
	cmd.QuotedTotal = money.Must(350000, "INR")
	_, err = h.Handle(context.Background(), cmd)
	var mismatch *domainpricing.MismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestCreateBookingEnforcesCapacity(t *testing.T) {
	env := newTestEnv(t)
	env.seedBooking(t, "bk-full", 45, 0)
	h := &CreateBookingHandler{UoWFactory: env.factory, Outbox: env.outbox}

	cmd := env.createCommand("cmd-1")
	cmd.Travelers = domainpricing.Travelers{Adults: 10}
	_, err := h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainavailability.ErrCapacityExceeded)

	// Cancelled bookings release their seats.
	stored, err := env.bookings.ByID(context.Background(), "bk-full")
	require.NoError(t, err)
	_, _, err = stored.Cancel("making room", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, env.bookings.Save(context.Background(), stored))

	_, err = h.Handle(context.Background(), cmd)
	assert.NoError(t, err)
}

func TestAddPaymentConfirmsOnFullBalance(t *testing.T) {
	env := newTestEnv(t)
	env.seedBooking(t, "bk-1", 2, 0)
	gw := &fakeGateway{}
	h := &AddPaymentHandler{UoWFactory: env.factory, Gateway: gw, Outbox: env.outbox}

	partial, err := h.Handle(context.Background(), AddPaymentCommand{
		BookingID:     "bk-1",
		TransactionID: "tx-1",
		Amount:        money.Must(40000, "INR"),
		Method:        "card",
	})
	require.NoError(t, err)
	assert.Equal(t, domainbooking.PaymentPartial, partial.PaymentStatus)
	assert.Equal(t, domainbooking.StatusDraft, partial.BookingStatus)
	assert.Equal(t, int64(60000), partial.Remaining.Amount)

	full, err := h.Handle(context.Background(), AddPaymentCommand{
		BookingID:     "bk-1",
		TransactionID: "tx-2",
		Amount:        money.Must(60000, "INR"),
		Method:        "card",
	})
	require.NoError(t, err)
	assert.Equal(t, domainbooking.PaymentCompleted, full.PaymentStatus)
	assert.Equal(t, domainbooking.StatusConfirmed, full.BookingStatus)
	assert.Equal(t, 2, gw.chargeCount())
}

func TestAddPaymentDeduplicatesByTransactionID(t *testing.T) {
	env := newTestEnv(t)
	env.seedBooking(t, "bk-1", 2, 0)
	gw := &fakeGateway{}
	h := &AddPaymentHandler{UoWFactory: env.factory, Gateway: gw, Outbox: env.outbox}

	cmd := AddPaymentCommand{
		BookingID:     "bk-1",
		TransactionID: "tx-1",
		Amount:        money.Must(40000, "INR"),
		Method:        "card",
	}
	first, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	replay, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, replay.Duplicate)
	assert.Equal(t, first.TotalPaid, replay.TotalPaid)
	// The gateway was charged exactly once.
	assert.Equal(t, 1, gw.chargeCount())
}

func TestAddPaymentOverdrawChargesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.seedBooking(t, "bk-1", 2, 80000)
	gw := &fakeGateway{}
	h := &AddPaymentHandler{UoWFactory: env.factory, Gateway: gw, Outbox: env.outbox}

	_, err := h.Handle(context.Background(), AddPaymentCommand{
		BookingID:     "bk-1",
		TransactionID: "tx-over",
		Amount:        money.Must(25000, "INR"),
		Method:        "card",
	})
	assert.ErrorIs(t, err, domainbooking.ErrAmountExceedsBalance)
	assert.Zero(t, gw.chargeCount())

	stored, err := env.bookings.ByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, int64(80000), stored.Payment.TotalPaid.Amount)
	assert.Len(t, stored.Payment.Transactions, 1)
}

func TestAddPaymentGatewayFailure(t *testing.T) {
	env := newTestEnv(t)
	env.seedBooking(t, "bk-1", 2, 0)
	h := &AddPaymentHandler{UoWFactory: env.factory, Gateway: &fakeGateway{fail: true}, Outbox: env.outbox}

	_, err := h.Handle(context.Background(), AddPaymentCommand{
		BookingID:     "bk-1",
		TransactionID: "tx-1",
		Amount:        money.Must(40000, "INR"),
		Method:        "card",
	})
	assert.ErrorIs(t, err, policies.ErrGatewayCharge)

	stored, err := env.bookings.ByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.True(t, stored.Payment.TotalPaid.IsZero())
}

func TestCancelBookingAppliesTier(t *testing.T) {
	env := newTestEnv(t)
	env.seedBooking(t, "bk-1", 2, 100000)
	h := &CancelBookingHandler{UoWFactory: env.factory, Outbox: env.outbox}

	result, err := h.Handle(context.Background(), CancelBookingCommand{
		BookingID: "bk-1",
		Reason:    "plans changed",
	})
	require.NoError(t, err)
	// Departure 40 days out: the >30 tier refunds 90%.
	assert.Equal(t, int64(90000), result.Refund.Amount)
	assert.Equal(t, int64(10000), result.Fee.Amount)

	stored, err := env.bookings.ByID(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCancelled, stored.Status)

	records := env.outbox.Pending()
	require.Len(t, records, 1)
	assert.Equal(t, "booking.cancelled", records[0].Name)
}

func TestCompleteThenReviewAndSettle(t *testing.T) {
	env := newTestEnv(t)
	env.seedBooking(t, "bk-1", 2, 100000)

	complete := &CompleteTripHandler{UoWFactory: env.factory, Outbox: env.outbox}
	completed, err := complete.Handle(context.Background(), CompleteTripCommand{BookingID: "bk-1"})
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCompleted, completed.Status)

	review := &AddReviewHandler{UoWFactory: env.factory}
	reviewed, err := review.Handle(context.Background(), AddReviewCommand{
		BookingID: "bk-1", Rating: 5, Comment: "flawless",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, reviewed.Reviews)

	settle := &SettleRefundHandler{UoWFactory: env.factory, Outbox: env.outbox}
	settled, err := settle.Handle(context.Background(), SettleRefundCommand{BookingID: "bk-1"})
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusRefunded, settled.Status)
}

func TestGetAndListQueries(t *testing.T) {
	env := newTestEnv(t)
	env.seedBooking(t, "bk-1", 2, 0)
	env.seedBooking(t, "bk-2", 3, 0)

	get := &GetBookingHandler{UoWFactory: env.factory}
	view, err := get.Handle(context.Background(), GetBookingQuery{BookingID: "bk-1"})
	require.NoError(t, err)
	assert.Equal(t, "bk-1", view.ID)
	assert.Equal(t, "user-1", view.UserID)

	_, err = get.Handle(context.Background(), GetBookingQuery{BookingID: "bk-unknown"})
	assert.ErrorIs(t, err, domainbooking.ErrBookingNotFound)

	list := &ListUserBookingsHandler{UoWFactory: env.factory}
	collection, err := list.Handle(context.Background(), ListUserBookingsQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, collection.Items, 2)

	empty, err := list.Handle(context.Background(), ListUserBookingsQuery{UserID: "user-9"})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}
