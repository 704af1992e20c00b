package booking

import "wayfare/internal/domain/shared/money"

// refundTiers maps days-to-departure brackets to a refund/fee percentage
// split. Boundaries are strict: exactly 30, 15 or 7 days out falls into
// the lower bracket.
var refundTiers = []struct {
	minDaysExclusive int
	refundPercent    int64
	feePercent       int64
}{
	{30, 90, 10},
	{15, 70, 30},
	{7, 50, 50},
	{-1 << 31, 25, 75},
}

// Split is the outcome of running the cancellation schedule against the
// amount actually paid so far.
type Split struct {
	RefundPercent int64
	FeePercent    int64
	Refund        money.Money
	Fee           money.Money
}

// RefundSplit applies the tier schedule. The fee percentage is computed
// independently of the refund rather than as a remainder so the two always
// reconcile against totalPaid within a minor unit of rounding.
func RefundSplit(daysToDeparture int, totalPaid money.Money) Split {
	for _, tier := range refundTiers {
		if daysToDeparture > tier.minDaysExclusive {
			return Split{
				RefundPercent: tier.refundPercent,
				FeePercent:    tier.feePercent,
				Refund:        totalPaid.Percent(tier.refundPercent),
				Fee:           totalPaid.Percent(tier.feePercent),
			}
		}
	}
	// Unreachable: the last tier accepts any value.
	return Split{Refund: money.Zero(totalPaid.Currency), Fee: totalPaid}
}
