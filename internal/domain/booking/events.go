package booking

import (
	"time"

	"wayfare/internal/domain/catalog"
	"wayfare/internal/domain/shared/money"
)

type Created struct {
	BookingID BookingID         `json:"booking_id"`
	Code      string            `json:"code"`
	UserID    string            `json:"user_id"`
	PackageID catalog.PackageID `json:"package_id"`
	Travelers int               `json:"travelers"`
	Total     money.Money       `json:"total"`
	At        time.Time         `json:"at"`
}

func (e Created) EventName() string     { return "booking.created" }
func (e Created) AggregateID() string   { return string(e.BookingID) }
func (e Created) OccurredAt() time.Time { return e.At }

type PaymentReceived struct {
	BookingID     BookingID   `json:"booking_id"`
	TransactionID string      `json:"transaction_id"`
	Amount        money.Money `json:"amount"`
	TotalPaid     money.Money `json:"total_paid"`
	Remaining     money.Money `json:"remaining"`
	At            time.Time   `json:"at"`
}

func (e PaymentReceived) EventName() string     { return "booking.payment_received" }
func (e PaymentReceived) AggregateID() string   { return string(e.BookingID) }
func (e PaymentReceived) OccurredAt() time.Time { return e.At }

type Confirmed struct {
	BookingID BookingID   `json:"booking_id"`
	Total     money.Money `json:"total"`
	At        time.Time   `json:"at"`
}

func (e Confirmed) EventName() string     { return "booking.confirmed" }
func (e Confirmed) AggregateID() string   { return string(e.BookingID) }
func (e Confirmed) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	BookingID BookingID   `json:"booking_id"`
	Refund    money.Money `json:"refund"`
	Fee       money.Money `json:"fee"`
	Reason    string      `json:"reason"`
	At        time.Time   `json:"at"`
}

func (e Cancelled) EventName() string     { return "booking.cancelled" }
func (e Cancelled) AggregateID() string   { return string(e.BookingID) }
func (e Cancelled) OccurredAt() time.Time { return e.At }

type TripCompleted struct {
	BookingID BookingID `json:"booking_id"`
	At        time.Time `json:"at"`
}

func (e TripCompleted) EventName() string     { return "booking.completed" }
func (e TripCompleted) AggregateID() string   { return string(e.BookingID) }
func (e TripCompleted) OccurredAt() time.Time { return e.At }

type RefundSettled struct {
	BookingID BookingID   `json:"booking_id"`
	Refund    money.Money `json:"refund"`
	At        time.Time   `json:"at"`
}

func (e RefundSettled) EventName() string     { return "booking.refund_settled" }
func (e RefundSettled) AggregateID() string   { return string(e.BookingID) }
func (e RefundSettled) OccurredAt() time.Time { return e.At }
