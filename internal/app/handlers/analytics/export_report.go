package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"wayfare/internal/app/commands"
	"wayfare/internal/app/handlers/support"
	"wayfare/internal/app/policies"
	"wayfare/internal/app/uow"
)

const exportReportKey = "analytics.export_report"

type ExportReportCommand struct {
	Currency string
}

func (c ExportReportCommand) Key() string { return exportReportKey }

type ExportReportResult struct {
	URL string `json:"url"`
}

// ExportReportHandler renders the summary as CSV and ships it to object
// storage for back-office consumption.
type ExportReportHandler struct {
	UoWFactory uow.UoWFactory
	Uploader   policies.ReportUploader
	Now        func() time.Time
}

func (h *ExportReportHandler) Handle(ctx context.Context, cmd ExportReportCommand) (*ExportReportResult, error) {
	if h.Uploader == nil {
		return nil, fmt.Errorf("analytics: report uploader not configured")
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	all, err := unit.Bookings().List(execCtx)
	if err != nil {
		return nil, err
	}
	summary := Aggregate(all, cmd.Currency)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{
		{"metric", "value"},
		{"total_bookings", strconv.Itoa(summary.TotalBookings)},
		{"confirmed_bookings", strconv.Itoa(summary.ConfirmedBookings)},
		{"cancelled_bookings", strconv.Itoa(summary.CancelledBookings)},
		{"completed_bookings", strconv.Itoa(summary.CompletedBookings)},
		{"refunded_bookings", strconv.Itoa(summary.RefundedBookings)},
		{"gross_revenue", summary.GrossRevenue.String()},
		{"collected_payments", summary.CollectedPayments.String()},
		{"refunds_issued", summary.RefundsIssued.String()},
		{"cancellation_fees", summary.CancellationFees.String()},
		{"conversion_percent", strconv.Itoa(summary.ConversionPercent)},
	}
	for _, m := range summary.MonthlyRevenue {
		rows = append(rows, []string{"revenue_" + m.Month, m.Revenue.String()})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	key := fmt.Sprintf("reports/bookings-%s.csv", now().UTC().Format("20060102-150405"))
	url, err := h.Uploader.Upload(ctx, key, &buf, "text/csv")
	if err != nil {
		return nil, err
	}
	return &ExportReportResult{URL: url}, nil
}

var _ commands.Handler[ExportReportCommand, *ExportReportResult] = (*ExportReportHandler)(nil)
