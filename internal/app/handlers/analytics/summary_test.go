package analytics

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "wayfare/internal/domain/booking"
	domainpricing "wayfare/internal/domain/pricing"
	domainrange "wayfare/internal/domain/shared/daterange"
	"wayfare/internal/domain/shared/money"
	"wayfare/internal/infra/storage/memory"
)

var aggNow = time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)

// buildBooking constructs a booking in the requested terminal shape. Travel
// dates sit more than 30 days past aggNow so cancellations land in the top
// refund tier (90% back, 10% fee).
func buildBooking(t *testing.T, id string, totalMinor, paidMinor int64, currency string, createdAt time.Time, status domainbooking.Status) *domainbooking.Booking {
	t.Helper()
	dates, err := domainrange.New(
		time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.September, 6, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:            domainbooking.BookingID(id),
		Code:          domainbooking.NewCode(createdAt),
		UserID:        "user-1",
		PackageID:     "pkg-1",
		DestinationID: "dest-1",
		Travelers:     domainpricing.Travelers{Adults: 2},
		Dates:         dates,
		Accommodation: domainbooking.Accommodation{Type: domainpricing.AccommodationBudget, Rooms: 1},
		Pricing:       domainpricing.Quote{Total: money.Must(totalMinor, currency), Currency: currency},
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)

	if paidMinor > 0 {
		_, err = bk.RegisterPayment(domainbooking.Transaction{
			TransactionID: "tx-" + id,
			Amount:        money.Must(paidMinor, currency),
			Method:        "card",
		}, aggNow)
		require.NoError(t, err)
	}
	switch status {
	case domainbooking.StatusDraft, domainbooking.StatusConfirmed:
		// Payment above already produced the right state.
	case domainbooking.StatusCompleted:
		require.NoError(t, bk.Complete(aggNow))
	case domainbooking.StatusCancelled:
		_, _, err := bk.Cancel("changed plans", aggNow)
		require.NoError(t, err)
	case domainbooking.StatusRefunded:
		_, _, err := bk.Cancel("changed plans", aggNow)
		require.NoError(t, err)
		require.NoError(t, bk.SettleRefund(aggNow))
	}
	require.Equal(t, status, bk.Status)
	bk.ClearEvents()
	return bk
}

func sampleBookings(t *testing.T) []*domainbooking.Booking {
	t.Helper()
	may := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)
	june := time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC)
	return []*domainbooking.Booking{
		buildBooking(t, "bk-draft", 100000, 0, "INR", may, domainbooking.StatusDraft),
		buildBooking(t, "bk-confirmed", 200000, 200000, "INR", may, domainbooking.StatusConfirmed),
		buildBooking(t, "bk-completed", 300000, 300000, "INR", june, domainbooking.StatusCompleted),
		buildBooking(t, "bk-cancelled", 100000, 50000, "INR", june, domainbooking.StatusCancelled),
		buildBooking(t, "bk-foreign", 500, 500, "USD", june, domainbooking.StatusConfirmed),
	}
}

func TestAggregate(t *testing.T) {
	s := Aggregate(sampleBookings(t), "INR")

	assert.Equal(t, 5, s.TotalBookings)
	assert.Equal(t, 1, s.DraftBookings)
	assert.Equal(t, 2, s.ConfirmedBookings)
	assert.Equal(t, 1, s.CompletedBookings)
	assert.Equal(t, 1, s.CancelledBookings)
	assert.Equal(t, 0, s.RefundedBookings)

	// Revenue and collections only fold amounts in the requested currency,
	// so the USD booking counts toward statuses but not the sums.
	assert.Equal(t, money.Must(500000, "INR"), s.GrossRevenue)
	assert.Equal(t, money.Must(550000, "INR"), s.CollectedPayments)

	// 50000 paid, cancelled >30 days out: 90% refunded, 10% retained.
	assert.Equal(t, money.Must(45000, "INR"), s.RefundsIssued)
	assert.Equal(t, money.Must(5000, "INR"), s.CancellationFees)

	// Three of five bookings reached confirmed or later.
	assert.Equal(t, 60, s.ConversionPercent)

	require.Len(t, s.MonthlyRevenue, 2)
	assert.Equal(t, "2026-05", s.MonthlyRevenue[0].Month)
	assert.Equal(t, 1, s.MonthlyRevenue[0].Bookings)
	assert.Equal(t, money.Must(200000, "INR"), s.MonthlyRevenue[0].Revenue)
	assert.Equal(t, "2026-06", s.MonthlyRevenue[1].Month)
	assert.Equal(t, money.Must(300000, "INR"), s.MonthlyRevenue[1].Revenue)
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil, "")
	assert.Equal(t, 0, s.TotalBookings)
	assert.Equal(t, 0, s.ConversionPercent)
	assert.Equal(t, money.Zero("INR"), s.GrossRevenue)
	assert.Empty(t, s.MonthlyRevenue)
}

type capturingUploader struct {
	key         string
	contentType string
	body        []byte
}

func (u *capturingUploader) Upload(_ context.Context, key string, reader io.Reader, contentType string) (string, error) {
	u.key = key
	u.contentType = contentType
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	u.body = body
	return "https://reports.example.com/" + key, nil
}

func TestExportReportUploadsCSV(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := context.Background()
	for _, bk := range sampleBookings(t) {
		require.NoError(t, repo.Save(ctx, bk))
	}

	uploader := &capturingUploader{}
	handler := &ExportReportHandler{
		UoWFactory: memory.Factory{
			BookingRepo:     repo,
			PackageRepo:     memory.NewPackageRepository(),
			DestinationRepo: memory.NewDestinationRepository(),
		},
		Uploader:   uploader,
		Now:        func() time.Time { return aggNow },
	}

	res, err := handler.Handle(ctx, ExportReportCommand{Currency: "INR"})
	require.NoError(t, err)
	assert.Equal(t, "https://reports.example.com/reports/bookings-20260701-120000.csv", res.URL)
	assert.Equal(t, "reports/bookings-20260701-120000.csv", uploader.key)
	assert.Equal(t, "text/csv", uploader.contentType)

	records, err := csv.NewReader(strings.NewReader(string(uploader.body))).ReadAll()
	require.NoError(t, err)
	byMetric := make(map[string]string, len(records))
	for _, rec := range records[1:] {
		byMetric[rec[0]] = rec[1]
	}
	assert.Equal(t, "5", byMetric["total_bookings"])
	assert.Equal(t, "5000.00 INR", byMetric["gross_revenue"])
	assert.Equal(t, "5500.00 INR", byMetric["collected_payments"])
	assert.Equal(t, "450.00 INR", byMetric["refunds_issued"])
	assert.Equal(t, "60", byMetric["conversion_percent"])
	assert.Equal(t, "2000.00 INR", byMetric["revenue_2026-05"])
	assert.Equal(t, "3000.00 INR", byMetric["revenue_2026-06"])
}
