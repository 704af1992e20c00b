package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wayfare/internal/domain/shared/money"
)

func TestRefundSplitTiers(t *testing.T) {
	paid := money.Must(100000, "INR")

	cases := []struct {
		name       string
		days       int
		refundPct  int64
		feePct     int64
		refund     int64
		fee        int64
	}{
		{"far out", 45, 90, 10, 90000, 10000},
		{"exactly 31", 31, 90, 10, 90000, 10000},
		{"exactly 30 falls to lower tier", 30, 70, 30, 70000, 30000},
		{"twenty days", 20, 70, 30, 70000, 30000},
		{"exactly 16", 16, 70, 30, 70000, 30000},
		{"exactly 15 falls to lower tier", 15, 50, 50, 50000, 50000},
		{"ten days", 10, 50, 50, 50000, 50000},
		{"exactly 8", 8, 50, 50, 50000, 50000},
		{"exactly 7 falls to bottom tier", 7, 25, 75, 25000, 75000},
		{"last minute", 1, 25, 75, 25000, 75000},
		{"departure day", 0, 25, 75, 25000, 75000},
		{"already departed", -3, 25, 75, 25000, 75000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			split := RefundSplit(tc.days, paid)
			assert.Equal(t, tc.refundPct, split.RefundPercent)
			assert.Equal(t, tc.feePct, split.FeePercent)
			assert.Equal(t, tc.refund, split.Refund.Amount)
			assert.Equal(t, tc.fee, split.Fee.Amount)
		})
	}
}

func TestRefundSplitTwentyDaysPartialPayment(t *testing.T) {
	split := RefundSplit(20, money.Must(100000, "INR"))
	assert.Equal(t, int64(70000), split.Refund.Amount)
	assert.Equal(t, int64(30000), split.Fee.Amount)
}

func TestRefundSplitNothingPaid(t *testing.T) {
	split := RefundSplit(20, money.Zero("INR"))
	assert.True(t, split.Refund.IsZero())
	assert.True(t, split.Fee.IsZero())
	assert.Equal(t, int64(70), split.RefundPercent)
}

func TestRefundSplitReconciles(t *testing.T) {
	// Odd amounts must still sum back to the paid total within a minor unit.
	paid := money.Must(99999, "INR")
	for _, days := range []int{45, 20, 10, 2} {
		split := RefundSplit(days, paid)
		sum := split.Refund.Amount + split.Fee.Amount
		diff := sum - paid.Amount
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, int64(1), "days=%d", days)
	}
}
