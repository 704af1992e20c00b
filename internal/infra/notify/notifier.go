package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"wayfare/internal/app/policies"
	domainbooking "wayfare/internal/domain/booking"
)

// Producer is the broker surface the notifier publishes through.
type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// KafkaNotifier hands notification and refund requests to downstream
// consumers over the broker. Delivery to the customer (mail, SMS) is owned
// by those consumers; this core only fires the message.
type KafkaNotifier struct {
	Producer          Producer
	NotificationTopic string
	RefundTopic       string
	Logger            *slog.Logger
}

type notificationMessage struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	BookingID   string    `json:"booking_id"`
	BookingCode string    `json:"booking_code"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	TotalMinor  int64     `json:"total_minor"`
	PaidMinor   int64     `json:"paid_minor"`
	RefundMinor int64     `json:"refund_minor,omitempty"`
	Currency    string    `json:"currency"`
	SentAt      time.Time `json:"sent_at"`
}

func (n KafkaNotifier) SendBookingConfirmation(ctx context.Context, b *domainbooking.Booking) error {
	return n.publish(ctx, n.NotificationTopic, "booking_confirmation", b)
}

func (n KafkaNotifier) SendPaymentConfirmation(ctx context.Context, b *domainbooking.Booking) error {
	return n.publish(ctx, n.NotificationTopic, "payment_confirmation", b)
}

func (n KafkaNotifier) SendCancellationConfirmation(ctx context.Context, b *domainbooking.Booking) error {
	return n.publish(ctx, n.NotificationTopic, "cancellation_confirmation", b)
}

func (n KafkaNotifier) RequestRefund(ctx context.Context, b *domainbooking.Booking) error {
	return n.publish(ctx, n.RefundTopic, "refund_request", b)
}

func (n KafkaNotifier) publish(ctx context.Context, topic, kind string, b *domainbooking.Booking) error {
	msg := notificationMessage{
		ID:          uuid.NewString(),
		Kind:        kind,
		BookingID:   string(b.ID),
		BookingCode: b.Code,
		UserID:      b.UserID,
		Status:      string(b.Status),
		TotalMinor:  b.Pricing.Total.Amount,
		PaidMinor:   b.Payment.TotalPaid.Amount,
		RefundMinor: b.Cancellation.Refund.Amount,
		Currency:    b.Pricing.Total.Currency,
		SentAt:      time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return n.Producer.Publish(ctx, topic, string(b.ID), payload, map[string]string{"kind": kind})
}

var _ policies.Notifier = KafkaNotifier{}
var _ policies.RefundDispatcher = KafkaNotifier{}

// LogNotifier is the broker-less fallback: it records the send in the
// service log and drops it.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) SendBookingConfirmation(ctx context.Context, b *domainbooking.Booking) error {
	return n.log("booking_confirmation", b)
}

func (n LogNotifier) SendPaymentConfirmation(ctx context.Context, b *domainbooking.Booking) error {
	return n.log("payment_confirmation", b)
}

func (n LogNotifier) SendCancellationConfirmation(ctx context.Context, b *domainbooking.Booking) error {
	return n.log("cancellation_confirmation", b)
}

func (n LogNotifier) RequestRefund(ctx context.Context, b *domainbooking.Booking) error {
	return n.log("refund_request", b)
}

func (n LogNotifier) log(kind string, b *domainbooking.Booking) error {
	if n.Logger != nil {
		n.Logger.Info("notification", "kind", kind, "booking_id", b.ID, "booking_code", b.Code, "user_id", b.UserID)
	}
	return nil
}

var _ policies.Notifier = LogNotifier{}
var _ policies.RefundDispatcher = LogNotifier{}
