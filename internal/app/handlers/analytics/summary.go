package analytics

import (
	"context"
	"sort"

	"wayfare/internal/app/handlers/support"
	"wayfare/internal/app/queries"
	"wayfare/internal/app/uow"
	domainbooking "wayfare/internal/domain/booking"
	"wayfare/internal/domain/shared/money"
)

const summaryKey = "analytics.summary"

type SummaryQuery struct {
	Currency string
}

func (q SummaryQuery) Key() string { return summaryKey }

// Summary is the revenue/conversion rollup over all stored bookings.
type Summary struct {
	TotalBookings     int `json:"total_bookings"`
	DraftBookings     int `json:"draft_bookings"`
	ConfirmedBookings int `json:"confirmed_bookings"`
	CancelledBookings int `json:"cancelled_bookings"`
	CompletedBookings int `json:"completed_bookings"`
	RefundedBookings  int `json:"refunded_bookings"`

	GrossRevenue      money.Money `json:"gross_revenue"`
	CollectedPayments money.Money `json:"collected_payments"`
	RefundsIssued     money.Money `json:"refunds_issued"`
	CancellationFees  money.Money `json:"cancellation_fees"`

	// ConversionPercent is confirmed-or-later bookings over all bookings,
	// in whole percent.
	ConversionPercent int `json:"conversion_percent"`

	MonthlyRevenue []MonthlyRevenue `json:"monthly_revenue"`
}

type MonthlyRevenue struct {
	Month    string      `json:"month"` // YYYY-MM
	Bookings int         `json:"bookings"`
	Revenue  money.Money `json:"revenue"`
}

type SummaryHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *SummaryHandler) Handle(ctx context.Context, q SummaryQuery) (Summary, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return Summary{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	all, err := unit.Bookings().List(execCtx)
	if err != nil {
		return Summary{}, err
	}
	return Aggregate(all, q.Currency), nil
}

// Aggregate folds the stored bookings into the summary. Revenue counts the
// quoted total of confirmed and completed bookings; collected payments sum
// the ledgers regardless of state.
func Aggregate(all []*domainbooking.Booking, currency string) Summary {
	if currency == "" {
		currency = "INR"
	}
	s := Summary{
		GrossRevenue:      money.Zero(currency),
		CollectedPayments: money.Zero(currency),
		RefundsIssued:     money.Zero(currency),
		CancellationFees:  money.Zero(currency),
	}
	months := map[string]*MonthlyRevenue{}
	converted := 0
	for _, b := range all {
		if b == nil {
			continue
		}
		s.TotalBookings++
		switch b.Status {
		case domainbooking.StatusDraft:
			s.DraftBookings++
		case domainbooking.StatusConfirmed:
			s.ConfirmedBookings++
		case domainbooking.StatusCancelled:
			s.CancelledBookings++
		case domainbooking.StatusCompleted:
			s.CompletedBookings++
		case domainbooking.StatusRefunded:
			s.RefundedBookings++
		}

		if b.Payment.TotalPaid.Currency == currency {
			s.CollectedPayments, _ = s.CollectedPayments.Add(b.Payment.TotalPaid)
		}

		switch b.Status {
		case domainbooking.StatusConfirmed, domainbooking.StatusCompleted:
			converted++
			if b.Pricing.Total.Currency == currency {
				s.GrossRevenue, _ = s.GrossRevenue.Add(b.Pricing.Total)
				month := b.CreatedAt.UTC().Format("2006-01")
				entry, ok := months[month]
				if !ok {
					entry = &MonthlyRevenue{Month: month, Revenue: money.Zero(currency)}
					months[month] = entry
				}
				entry.Bookings++
				entry.Revenue, _ = entry.Revenue.Add(b.Pricing.Total)
			}
		case domainbooking.StatusCancelled, domainbooking.StatusRefunded:
			if b.Cancellation.Refund.Currency == currency {
				s.RefundsIssued, _ = s.RefundsIssued.Add(b.Cancellation.Refund)
				s.CancellationFees, _ = s.CancellationFees.Add(b.Cancellation.Fee)
			}
		}
	}
	if s.TotalBookings > 0 {
		s.ConversionPercent = converted * 100 / s.TotalBookings
	}
	for _, entry := range months {
		s.MonthlyRevenue = append(s.MonthlyRevenue, *entry)
	}
	sort.Slice(s.MonthlyRevenue, func(i, j int) bool {
		return s.MonthlyRevenue[i].Month < s.MonthlyRevenue[j].Month
	})
	return s
}

var _ queries.Handler[SummaryQuery, Summary] = (*SummaryHandler)(nil)
