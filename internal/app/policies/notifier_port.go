package policies

import (
	"context"

	"wayfare/internal/domain/booking"
)

// Notifier delivers customer-facing confirmations. All sends are
// fire-and-forget: failures are logged by the dispatcher and never block
// or fail the core operation.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, b *booking.Booking) error
	SendPaymentConfirmation(ctx context.Context, b *booking.Booking) error
	SendCancellationConfirmation(ctx context.Context, b *booking.Booking) error
}

// RefundDispatcher forwards a refund request to the settlement collaborator.
// Like notifications it carries no acknowledgement back into the core.
type RefundDispatcher interface {
	RequestRefund(ctx context.Context, b *booking.Booking) error
}
