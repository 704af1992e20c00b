package booking

import (
	"context"
	"log/slog"
	"time"

	domainbooking "wayfare/internal/domain/booking"
)

// notifyAsync fires a collaborator send without blocking the command. The
// send gets its own deadline; failures are logged and dropped, never
// surfaced to the caller.
func notifyAsync(logger *slog.Logger, what string, b *domainbooking.Booking, send func(context.Context, *domainbooking.Booking) error) {
	if send == nil || b == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := send(ctx, b); err != nil && logger != nil {
			logger.Warn("notification dispatch failed", "kind", what, "booking_id", b.ID, "error", err)
		}
	}()
}
