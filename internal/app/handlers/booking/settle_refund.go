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

// Refund settlement arrives as an external event from the payments
// collaborator once the money has actually moved.
const settleRefundKey = "booking.settle_refund"

type SettleRefundCommand struct {
	BookingID string
}

func (c SettleRefundCommand) Key() string { return settleRefundKey }

func (c SettleRefundCommand) LockKeys() []string {
	return []string{locks.BookingKey(c.BookingID)}
}

type SettleRefundResult struct {
	BookingID string               `json:"booking_id"`
	Status    domainbooking.Status `json:"status"`
}

type SettleRefundHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *SettleRefundHandler) Handle(ctx context.Context, cmd SettleRefundCommand) (*SettleRefundResult, error) {
	unit, execCtx, commit, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	bk, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if err := bk.SettleRefund(time.Now().UTC()); err != nil {
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
	return &SettleRefundResult{BookingID: string(bk.ID), Status: bk.Status}, nil
}

func (h *SettleRefundHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[SettleRefundCommand, *SettleRefundResult] = (*SettleRefundHandler)(nil)
var _ middleware.LockingCommand = SettleRefundCommand{}
