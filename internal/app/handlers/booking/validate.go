package booking

import (
	"errors"
	"fmt"
	"strings"

	"wayfare/internal/app/middleware"
	domainbooking "wayfare/internal/domain/booking"
	domainrange "wayfare/internal/domain/shared/daterange"
)

// Edge validation errors. Field-shape problems are caught here, before a
// command reaches its handler; anything involving stored state stays in
// the handlers and the domain.
var (
	ErrMissingField      = errors.New("booking: required field missing")
	ErrNonPositiveAmount = errors.New("booking: payment amount must be positive")
)

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return nil
}

func (c CreateBookingCommand) Validate() error {
	if err := requireField("command_id", c.CommandID); err != nil {
		return err
	}
	if strings.TrimSpace(c.UserID) == "" {
		return domainbooking.ErrUserRequired
	}
	if err := requireField("package_id", c.PackageID); err != nil {
		return err
	}
	if err := requireField("destination_id", c.DestinationID); err != nil {
		return err
	}
	if err := c.Travelers.Validate(); err != nil {
		return err
	}
	if !c.End.After(c.Start) {
		return domainrange.ErrInvalidRange
	}
	return nil
}

func (c AddPaymentCommand) Validate() error {
	if err := requireField("booking_id", c.BookingID); err != nil {
		return err
	}
	if err := requireField("transaction_id", c.TransactionID); err != nil {
		return err
	}
	if c.Amount.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	return nil
}

func (c CancelBookingCommand) Validate() error {
	return requireField("booking_id", c.BookingID)
}

func (c CompleteTripCommand) Validate() error {
	return requireField("booking_id", c.BookingID)
}

func (c SettleRefundCommand) Validate() error {
	return requireField("booking_id", c.BookingID)
}

func (c AddReviewCommand) Validate() error {
	if err := requireField("booking_id", c.BookingID); err != nil {
		return err
	}
	if c.Rating < 1 || c.Rating > 5 {
		return domainbooking.ErrInvalidRating
	}
	return nil
}

func (q GetBookingQuery) Validate() error {
	return requireField("booking_id", q.BookingID)
}

func (q ListUserBookingsQuery) Validate() error {
	if strings.TrimSpace(q.UserID) == "" {
		return domainbooking.ErrUserRequired
	}
	return nil
}

var (
	_ middleware.Validatable = CreateBookingCommand{}
	_ middleware.Validatable = AddPaymentCommand{}
	_ middleware.Validatable = CancelBookingCommand{}
	_ middleware.Validatable = CompleteTripCommand{}
	_ middleware.Validatable = SettleRefundCommand{}
	_ middleware.Validatable = AddReviewCommand{}
	_ middleware.Validatable = GetBookingQuery{}
	_ middleware.Validatable = ListUserBookingsQuery{}
)
