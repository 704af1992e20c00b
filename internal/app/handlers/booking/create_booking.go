package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wayfare/internal/app/commands"
	"wayfare/internal/app/handlers/support"
	"wayfare/internal/app/locks"
	"wayfare/internal/app/middleware"
	"wayfare/internal/app/outbox"
	"wayfare/internal/app/policies"
	"wayfare/internal/app/uow"
	domainavailability "wayfare/internal/domain/availability"
	domainbooking "wayfare/internal/domain/booking"
	domaincatalog "wayfare/internal/domain/catalog"
	domainpricing "wayfare/internal/domain/pricing"
	domainrange "wayfare/internal/domain/shared/daterange"
	"wayfare/internal/domain/shared/money"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	CommandID     string
	UserID        string
	PackageID     string
	DestinationID string

	Travelers      domainpricing.Travelers
	Start          time.Time
	End            time.Time
	Accommodation  domainbooking.Accommodation
	Transportation domainbooking.Transportation
	Discounts      money.Money

	// QuotedTotal is the total the caller priced on their side. Zero
	// currency means no client-side quote to verify.
	QuotedTotal money.Money

	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

// Creation serializes per package so two concurrent requests cannot both
// pass the capacity check for the same window.
func (c CreateBookingCommand) LockKeys() []string {
	return []string{locks.PackageKey(c.PackageID)}
}

type CreateBookingResult struct {
	BookingID   string      `json:"booking_id"`
	BookingCode string      `json:"booking_code"`
	Total       money.Money `json:"total"`
}

type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	unit, execCtx, commit, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	dr, err := domainrange.New(cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := domainbooking.ValidateTravelDates(dr, now); err != nil {
		return nil, err
	}

	pkg, err := unit.Packages().ByID(execCtx, domaincatalog.PackageID(cmd.PackageID))
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, fmt.Errorf("%w: package %s inactive", domaincatalog.ErrPackageNotFound, pkg.ID)
	}
	dest, err := unit.Destinations().ByID(execCtx, domaincatalog.DestinationID(cmd.DestinationID))
	if err != nil {
		return nil, err
	}
	if !dest.IsActive {
		return nil, fmt.Errorf("%w: destination %s inactive", domaincatalog.ErrDestinationNotFound, dest.ID)
	}

	quoteInput := domainpricing.QuoteInput{
		Travelers:      cmd.Travelers,
		AdultPrice:     pkg.AdultPrice,
		Accommodation:  cmd.Accommodation.Type,
		Rooms:          cmd.Accommodation.Rooms,
		FlightRequired: cmd.Transportation.FlightRequired,
		FlightClass:    cmd.Transportation.FlightClass,
		Discounts:      cmd.Discounts,
	}
	var quote domainpricing.Quote
	if cmd.QuotedTotal.Currency != "" {
		quote, err = domainpricing.Verify(quoteInput, cmd.QuotedTotal)
	} else {
		quote, err = domainpricing.Calculate(quoteInput)
	}
	if err != nil {
		return nil, err
	}

	existing, err := unit.Bookings().FindOverlapping(execCtx, pkg.ID, dr, []domainbooking.Status{domainbooking.StatusCancelled, domainbooking.StatusRefunded})
	if err != nil {
		return nil, err
	}
	occupied := domainavailability.Occupancy(existing, dr)
	if err := domainavailability.Check(occupied, cmd.Travelers.Total()); err != nil {
		return nil, err
	}

	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:             domainbooking.BookingID(cmd.CommandID),
		Code:           domainbooking.NewCode(now),
		UserID:         cmd.UserID,
		PackageID:      pkg.ID,
		DestinationID:  dest.ID,
		Travelers:      cmd.Travelers,
		Dates:          dr,
		Accommodation:  cmd.Accommodation,
		Transportation: cmd.Transportation,
		Pricing:        quote,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(execCtx, bk); err != nil {
		return nil, err
	}

	pending := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if commit != nil {
		if err := commit(execCtx); err != nil {
			return nil, err
		}
	}

	if h.Notifier != nil {
		notifyAsync(h.Logger, "booking confirmation", bk, h.Notifier.SendBookingConfirmation)
	}

	return &CreateBookingResult{BookingID: string(bk.ID), BookingCode: bk.Code, Total: bk.Pricing.Total}, nil
}

func (h *CreateBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}
var _ middleware.LockingCommand = CreateBookingCommand{}
