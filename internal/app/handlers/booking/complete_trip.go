package booking

import (
	"context"
	"time"

	"wayfare/internal/app/commands"
	"wayfare/internal/app/handlers/support"
	"wayfare/internal/app/locks"
	"wayfare/internal/app/middleware"
	"wayfare/internal/app/outbox"
	"wayfare/internal/app/uow"
	domainbooking "wayfare/internal/domain/booking"
)

// The trip-completion trigger itself lives outside this core (a scheduler
// or back-office process fires it after the travel window elapses); only
// the transition is exposed here.
const completeTripKey = "booking.complete"

type CompleteTripCommand struct {
	BookingID string
}

func (c CompleteTripCommand) Key() string { return completeTripKey }

func (c CompleteTripCommand) LockKeys() []string {
	return []string{locks.BookingKey(c.BookingID)}
}

type CompleteTripResult struct {
	BookingID string               `json:"booking_id"`
	Status    domainbooking.Status `json:"status"`
}

type CompleteTripHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CompleteTripHandler) Handle(ctx context.Context, cmd CompleteTripCommand) (*CompleteTripResult, error) {
	unit, execCtx, commit, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	bk, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if err := bk.Complete(time.Now().UTC()); err != nil {
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
	return &CompleteTripResult{BookingID: string(bk.ID), Status: bk.Status}, nil
}

func (h *CompleteTripHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CompleteTripCommand, *CompleteTripResult] = (*CompleteTripHandler)(nil)
var _ middleware.LockingCommand = CompleteTripCommand{}
