package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "wayfare/internal/domain/booking"
	domainpricing "wayfare/internal/domain/pricing"
	domainrange "wayfare/internal/domain/shared/daterange"
	"wayfare/internal/domain/shared/money"
)

func TestCreateBookingCommandValidate(t *testing.T) {
	env := newTestEnv(t)
	base := env.createCommand("cmd-1")
	require.NoError(t, base.Validate())

	cases := []struct {
		name    string
		mutate  func(c *CreateBookingCommand)
		wantErr error
	}{
		{"missing command id", func(c *CreateBookingCommand) { c.CommandID = "" }, ErrMissingField},
		{"missing user", func(c *CreateBookingCommand) { c.UserID = "  " }, domainbooking.ErrUserRequired},
		{"missing package", func(c *CreateBookingCommand) { c.PackageID = "" }, ErrMissingField},
		{"missing destination", func(c *CreateBookingCommand) { c.DestinationID = "" }, ErrMissingField},
		{"no adults", func(c *CreateBookingCommand) { c.Travelers = domainpricing.Travelers{Children: 2} }, domainpricing.ErrNoAdults},
		{"inverted dates", func(c *CreateBookingCommand) { c.End = c.Start.Add(-24 * time.Hour) }, domainrange.ErrInvalidRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := base
			tc.mutate(&cmd)
			assert.ErrorIs(t, cmd.Validate(), tc.wantErr)
		})
	}
}

func TestPaymentAndLifecycleCommandValidate(t *testing.T) {
	pay := AddPaymentCommand{BookingID: "bk-1", TransactionID: "tx-1", Amount: money.Must(1000, "INR")}
	require.NoError(t, pay.Validate())

	assert.ErrorIs(t, AddPaymentCommand{TransactionID: "tx-1", Amount: money.Must(1000, "INR")}.Validate(), ErrMissingField)
	assert.ErrorIs(t, AddPaymentCommand{BookingID: "bk-1", Amount: money.Must(1000, "INR")}.Validate(), ErrMissingField)
	assert.ErrorIs(t, AddPaymentCommand{BookingID: "bk-1", TransactionID: "tx-1"}.Validate(), ErrNonPositiveAmount)

	assert.NoError(t, CancelBookingCommand{BookingID: "bk-1"}.Validate())
	assert.ErrorIs(t, CancelBookingCommand{}.Validate(), ErrMissingField)
	assert.ErrorIs(t, CompleteTripCommand{}.Validate(), ErrMissingField)
	assert.ErrorIs(t, SettleRefundCommand{}.Validate(), ErrMissingField)

	assert.NoError(t, AddReviewCommand{BookingID: "bk-1", Rating: 4}.Validate())
	assert.ErrorIs(t, AddReviewCommand{Rating: 4}.Validate(), ErrMissingField)
	assert.ErrorIs(t, AddReviewCommand{BookingID: "bk-1", Rating: 6}.Validate(), domainbooking.ErrInvalidRating)

	assert.NoError(t, GetBookingQuery{BookingID: "bk-1"}.Validate())
	assert.ErrorIs(t, GetBookingQuery{}.Validate(), ErrMissingField)
	assert.NoError(t, ListUserBookingsQuery{UserID: "user-1"}.Validate())
	assert.ErrorIs(t, ListUserBookingsQuery{}.Validate(), domainbooking.ErrUserRequired)
}
