package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesCurrency(t *testing.T) {
	m, err := New(1500, "inr")
	require.NoError(t, err)
	assert.Equal(t, "INR", m.Currency)
	assert.Equal(t, int64(1500), m.Amount)

	_, err = New(100, "RUPEES")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestAddSubCurrencyMismatch(t *testing.T) {
	a := Must(100, "INR")
	b := Must(50, "USD")

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.Sub(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	sum, err := a.Add(Must(25, "INR"))
	require.NoError(t, err)
	assert.Equal(t, int64(125), sum.Amount)
}

func TestPercentRoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		amount int64
		pct    int64
		want   int64
	}{
		{100, 50, 50},
		{101, 50, 51},  // 50.5 rounds up
		{-101, 50, -51},
		{333, 10, 33},  // 33.3 rounds down
		{335, 10, 34},  // 33.5 rounds up
		{200000, 18, 36000},
	}
	for _, tc := range cases {
		got := Money{Amount: tc.amount, Currency: "INR"}.Percent(tc.pct)
		assert.Equal(t, tc.want, got.Amount, "%d%% of %d", tc.pct, tc.amount)
	}
}

func TestScalePanicsOnBadDenominator(t *testing.T) {
	assert.Panics(t, func() {
		Must(100, "INR").Scale(1, 0)
	})
}

func TestWithinTolerance(t *testing.T) {
	a := Must(360000, "INR")

	assert.True(t, a.WithinTolerance(Must(360001, "INR"), 1))
	assert.True(t, a.WithinTolerance(Must(359999, "INR"), 1))
	assert.False(t, a.WithinTolerance(Must(360002, "INR"), 1))
	assert.False(t, a.WithinTolerance(Must(360000, "USD"), 1))
}

func TestString(t *testing.T) {
	assert.Equal(t, "3600.00 INR", Must(360000, "INR").String())
	assert.Equal(t, "10.05 INR", Must(1005, "INR").String())
	// Negative amounts carry a single leading sign, even under one unit.
	assert.Equal(t, "-10.05 INR", Must(-1005, "INR").String())
	assert.Equal(t, "-0.05 INR", Must(-5, "INR").String())
}
