package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"
)

// DeliveryHandler consumes notification messages published by the booking
// core and hands them to the delivery channel. The local build logs them;
// a real deployment would swap in mail or SMS providers here.
type DeliveryHandler struct {
	Logger *slog.Logger
}

func (d DeliveryHandler) Handle(_ context.Context, msg *sarama.ConsumerMessage) error {
	var m notificationMessage
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		if d.Logger != nil {
			d.Logger.Warn("notification message malformed", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		}
		return nil
	}
	if d.Logger != nil {
		d.Logger.Info("notification delivered",
			"kind", m.Kind,
			"booking_id", m.BookingID,
			"booking_code", m.BookingCode,
			"user_id", m.UserID,
			"status", m.Status,
		)
	}
	return nil
}
