package booking

import (
	"context"
	"log/slog"
	"time"

	"wayfare/internal/app/commands"
	"wayfare/internal/app/handlers/support"
	"wayfare/internal/app/locks"
	"wayfare/internal/app/middleware"
	"wayfare/internal/app/outbox"
	"wayfare/internal/app/policies"
	"wayfare/internal/app/uow"
	domainbooking "wayfare/internal/domain/booking"
	"wayfare/internal/domain/shared/money"
)

const cancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID string
	Reason    string

	IdempotencyKeyV string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

func (c CancelBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CancelBookingCommand) ResultPrototype() any { return &CancelBookingResult{} }

func (c CancelBookingCommand) LockKeys() []string {
	return []string{locks.BookingKey(c.BookingID)}
}

type CancelBookingResult struct {
	BookingID string      `json:"booking_id"`
	Refund    money.Money `json:"refund"`
	Fee       money.Money `json:"fee"`
}

type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Refunds    policies.RefundDispatcher
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	unit, execCtx, commit, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	bk, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}

	refund, fee, err := bk.Cancel(cmd.Reason, time.Now().UTC())
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

	if h.Refunds != nil && refund.Amount > 0 {
		notifyAsync(h.Logger, "refund request", bk, h.Refunds.RequestRefund)
	}
	if h.Notifier != nil {
		notifyAsync(h.Logger, "cancellation confirmation", bk, h.Notifier.SendCancellationConfirmation)
	}

	return &CancelBookingResult{BookingID: string(bk.ID), Refund: refund, Fee: fee}, nil
}

func (h *CancelBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
var _ middleware.IdempotentCommand = CancelBookingCommand{}
var _ middleware.LockingCommand = CancelBookingCommand{}
