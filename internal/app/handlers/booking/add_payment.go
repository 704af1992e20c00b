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
	domainbooking "wayfare/internal/domain/booking"
	"wayfare/internal/domain/shared/money"
)

const addPaymentKey = "booking.add_payment"

type AddPaymentCommand struct {
	BookingID     string
	TransactionID string
	Amount        money.Money
	Method        string

	IdempotencyKeyV string
}

func (c AddPaymentCommand) Key() string { return addPaymentKey }

func (c AddPaymentCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c AddPaymentCommand) ResultPrototype() any { return &AddPaymentResult{} }

// Payments serialize per booking so two submissions cannot both read a
// stale remaining balance, and so a cancellation cannot interleave.
func (c AddPaymentCommand) LockKeys() []string {
	return []string{locks.BookingKey(c.BookingID)}
}

type AddPaymentResult struct {
	BookingID     string                      `json:"booking_id"`
	TransactionID string                      `json:"transaction_id"`
	PaymentStatus domainbooking.PaymentStatus `json:"payment_status"`
	BookingStatus domainbooking.Status        `json:"booking_status"`
	TotalPaid     money.Money                 `json:"total_paid"`
	Remaining     money.Money                 `json:"remaining"`
	Duplicate     bool                        `json:"duplicate,omitempty"`
}

type AddPaymentHandler struct {
	UoWFactory uow.UoWFactory
	Gateway    policies.PaymentGateway
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *AddPaymentHandler) Handle(ctx context.Context, cmd AddPaymentCommand) (*AddPaymentResult, error) {
	if cmd.TransactionID == "" {
		return nil, fmt.Errorf("%w: transaction_id", ErrMissingField)
	}
	unit, execCtx, commit, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	bk, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}

	// Same transaction id replayed: report the prior outcome, charge nothing.
	prior, err := bk.PaymentPreflight(cmd.TransactionID, cmd.Amount)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		return &AddPaymentResult{
			BookingID:     string(bk.ID),
			TransactionID: prior.TransactionID,
			PaymentStatus: bk.Payment.Status,
			BookingStatus: bk.Status,
			TotalPaid:     bk.Payment.TotalPaid,
			Remaining:     bk.Payment.Remaining,
			Duplicate:     true,
		}, nil
	}

	charge, err := h.Gateway.Charge(execCtx, cmd.Amount, cmd.Method, cmd.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("%w: booking %s: %v", policies.ErrGatewayCharge, bk.ID, err)
	}

	now := time.Now().UTC()
	completed, err := bk.RegisterPayment(domainbooking.Transaction{
		TransactionID: cmd.TransactionID,
		GatewayRef:    charge.GatewayTransactionID,
		Amount:        cmd.Amount,
		Method:        cmd.Method,
		Timestamp:     now,
	}, now)
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

	if completed && h.Notifier != nil {
		notifyAsync(h.Logger, "payment confirmation", bk, h.Notifier.SendPaymentConfirmation)
	}

	return &AddPaymentResult{
		BookingID:     string(bk.ID),
		TransactionID: cmd.TransactionID,
		PaymentStatus: bk.Payment.Status,
		BookingStatus: bk.Status,
		TotalPaid:     bk.Payment.TotalPaid,
		Remaining:     bk.Payment.Remaining,
	}, nil
}

func (h *AddPaymentHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[AddPaymentCommand, *AddPaymentResult] = (*AddPaymentHandler)(nil)
var _ middleware.IdempotentCommand = AddPaymentCommand{}
var _ middleware.LockingCommand = AddPaymentCommand{}
