package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wayfare/internal/domain/catalog"
	"wayfare/internal/domain/pricing"
	"wayfare/internal/domain/shared/daterange"
	"wayfare/internal/domain/shared/events"
	"wayfare/internal/domain/shared/money"
)

var (
	ErrInvalidState     = errors.New("booking: invalid state transition")
	ErrBookingNotFound  = errors.New("booking: not found")
	ErrConcurrentUpdate = errors.New("booking: concurrent update detected")
	ErrUserRequired     = errors.New("booking: user id required")
	ErrStartInPast      = errors.New("booking: travel start date is in the past")
	ErrInvalidRating    = errors.New("booking: rating must be between 1 and 5")
	ErrReviewTooEarly   = errors.New("booking: reviews allowed only after trip completion")
)

// ErrNotCancellable is a flavor of invalid transition: callers matching on
// ErrInvalidState catch it too.
var ErrNotCancellable = fmt.Errorf("%w: cancellation disabled", ErrInvalidState)

type BookingID string

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusRefunded  Status = "REFUNDED"
)

// ActiveStatuses are the states that count against package capacity.
// Cancelled and refunded bookings release their seats.
func ActiveStatuses() []Status {
	return []Status{StatusDraft, StatusConfirmed, StatusCompleted}
}

// Accommodation holds the lodging choice priced into the quote.
type Accommodation struct {
	Type     pricing.AccommodationType `json:"type" bson:"type"`
	RoomType string                    `json:"room_type" bson:"room_type"`
	Rooms    int                       `json:"rooms" bson:"rooms"`
}

// Transportation holds the flight choice priced into the quote.
type Transportation struct {
	FlightRequired bool                `json:"flight_required" bson:"flight_required"`
	FlightClass    pricing.FlightClass `json:"flight_class,omitempty" bson:"flight_class,omitempty"`
}

// Cancellation captures the refund outcome once a booking is cancelled.
type Cancellation struct {
	IsCancellable bool        `json:"is_cancellable" bson:"is_cancellable"`
	RefundPercent int64       `json:"refund_percent" bson:"refund_percent"`
	FeePercent    int64       `json:"fee_percent" bson:"fee_percent"`
	Refund        money.Money `json:"refund" bson:"refund"`
	Fee           money.Money `json:"fee" bson:"fee"`
	Reason        string      `json:"reason,omitempty" bson:"reason,omitempty"`
	Date          time.Time   `json:"date,omitempty" bson:"date,omitempty"`
}

// Review is owned exclusively by its booking; nothing outside the aggregate
// holds a reference into the slice.
type Review struct {
	Rating  int       `json:"rating" bson:"rating"`
	Comment string    `json:"comment" bson:"comment"`
	Date    time.Time `json:"date" bson:"date"`
}

// Booking is the aggregate root of the lifecycle core. All mutation goes
// through its methods; repositories persist it as a whole.
type Booking struct {
	ID            BookingID
	Code          string
	UserID        string
	PackageID     catalog.PackageID
	DestinationID catalog.DestinationID

	Travelers      pricing.Travelers
	Dates          daterange.DateRange
	DurationDays   int
	Accommodation  Accommodation
	Transportation Transportation

	Pricing      pricing.Quote
	Payment      Ledger
	Status       Status
	Cancellation Cancellation
	Reviews      []Review

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

// Repository is the persistence contract. Save performs a conditional write
// against Version and reports ErrConcurrentUpdate-style failures from the
// infra layer.
type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	FindOverlapping(ctx context.Context, packageID catalog.PackageID, window daterange.DateRange, exclude []Status) ([]*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)
	List(ctx context.Context) ([]*Booking, error)
}

type CreateParams struct {
	ID             BookingID
	Code           string
	UserID         string
	PackageID      catalog.PackageID
	DestinationID  catalog.DestinationID
	Travelers      pricing.Travelers
	Dates          daterange.DateRange
	Accommodation  Accommodation
	Transportation Transportation
	Pricing        pricing.Quote
	CreatedAt      time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.UserID == "" {
		return nil, ErrUserRequired
	}
	if err := params.Travelers.Validate(); err != nil {
		return nil, err
	}
	if err := params.Dates.Validate(); err != nil {
		return nil, err
	}
	if params.Accommodation.Rooms < 1 {
		return nil, pricing.ErrInvalidRooms
	}
	if params.Pricing.Total.IsNegative() {
		return nil, fmt.Errorf("booking: negative total %s", params.Pricing.Total)
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:             params.ID,
		Code:           params.Code,
		UserID:         params.UserID,
		PackageID:      params.PackageID,
		DestinationID:  params.DestinationID,
		Travelers:      params.Travelers,
		Dates:          params.Dates,
		DurationDays:   params.Dates.DurationDays(),
		Accommodation:  params.Accommodation,
		Transportation: params.Transportation,
		Pricing:        params.Pricing,
		Payment:        NewLedger(params.Pricing.Total),
		Status:         StatusDraft,
		Cancellation:   Cancellation{IsCancellable: true},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	b.Record(Created{BookingID: b.ID, Code: b.Code, UserID: b.UserID, PackageID: b.PackageID, Travelers: b.Travelers.Total(), Total: b.Pricing.Total, At: now})
	return b, nil
}

// ValidateTravelDates rejects trips that would start before today.
func ValidateTravelDates(dr daterange.DateRange, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(dr.Start.Year(), dr.Start.Month(), dr.Start.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) {
		return ErrStartInPast
	}
	return nil
}

// SetDates replaces the travel window, keeping DurationDays in step.
func (b *Booking) SetDates(dr daterange.DateRange, now time.Time) error {
	if err := dr.Validate(); err != nil {
		return err
	}
	b.Dates = dr
	b.DurationDays = dr.DurationDays()
	b.UpdatedAt = now.UTC()
	return nil
}

// RegisterPayment appends a charged transaction to the ledger and recomputes
// the derived totals. The gateway call has already succeeded by the time
// this runs; the overdraw precondition was checked before charging. Returns
// true when the payment completed the balance and confirmed the booking.
func (b *Booking) RegisterPayment(tx Transaction, now time.Time) (bool, error) {
	switch b.Status {
	case StatusDraft, StatusConfirmed:
	default:
		return false, fmt.Errorf("%w: payment in state %s", ErrInvalidState, b.Status)
	}
	if err := b.Payment.apply(tx); err != nil {
		return false, err
	}
	b.UpdatedAt = now.UTC()
	b.Record(PaymentReceived{BookingID: b.ID, TransactionID: tx.TransactionID, Amount: tx.Amount, TotalPaid: b.Payment.TotalPaid, Remaining: b.Payment.Remaining, At: b.UpdatedAt})

	confirmed := false
	if b.Payment.Status == PaymentCompleted && b.Status == StatusDraft {
		b.Status = StatusConfirmed
		confirmed = true
		b.Record(Confirmed{BookingID: b.ID, Total: b.Pricing.Total, At: b.UpdatedAt})
	} else if b.Payment.Status == PaymentCompleted && b.Status == StatusConfirmed {
		confirmed = true
	}
	return confirmed, nil
}

// PaymentPreflight validates a proposed payment without mutating anything.
// A nil transaction pointer in the first return means the transaction id was
// not seen before; a non-nil one is the prior application of the same id.
func (b *Booking) PaymentPreflight(transactionID string, amount money.Money) (*Transaction, error) {
	if prior := b.Payment.Find(transactionID); prior != nil {
		return prior, nil
	}
	switch b.Status {
	case StatusDraft, StatusConfirmed:
	default:
		return nil, fmt.Errorf("%w: payment in state %s", ErrInvalidState, b.Status)
	}
	if err := b.Payment.checkBalance(amount); err != nil {
		return nil, err
	}
	return nil, nil
}

// Cancel moves the booking to CANCELLED, computing the refund split from the
// tier schedule. Terminal states and non-cancellable bookings are rejected.
func (b *Booking) Cancel(reason string, now time.Time) (refund, fee money.Money, err error) {
	switch b.Status {
	case StatusCancelled, StatusCompleted, StatusRefunded:
		return money.Money{}, money.Money{}, fmt.Errorf("%w: cancel in state %s", ErrInvalidState, b.Status)
	}
	if !b.Cancellation.IsCancellable {
		return money.Money{}, money.Money{}, ErrNotCancellable
	}
	split := RefundSplit(b.Dates.DaysUntil(now), b.Payment.TotalPaid)
	b.Status = StatusCancelled
	b.Cancellation.RefundPercent = split.RefundPercent
	b.Cancellation.FeePercent = split.FeePercent
	b.Cancellation.Refund = split.Refund
	b.Cancellation.Fee = split.Fee
	b.Cancellation.Reason = reason
	b.Cancellation.Date = now.UTC()
	b.UpdatedAt = now.UTC()
	b.Record(Cancelled{BookingID: b.ID, Refund: split.Refund, Fee: split.Fee, Reason: reason, At: b.UpdatedAt})
	return split.Refund, split.Fee, nil
}

// Complete marks the trip as taken. The trigger lives outside this core; a
// scheduler or back-office action invokes it once the travel window elapses.
func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed {
		return fmt.Errorf("%w: complete in state %s", ErrInvalidState, b.Status)
	}
	b.Status = StatusCompleted
	b.UpdatedAt = now.UTC()
	b.Record(TripCompleted{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

// SettleRefund acknowledges the external refund settlement, moving the
// booking and its ledger to REFUNDED.
func (b *Booking) SettleRefund(now time.Time) error {
	switch b.Status {
	case StatusCancelled, StatusCompleted:
	default:
		return fmt.Errorf("%w: refund settlement in state %s", ErrInvalidState, b.Status)
	}
	b.Status = StatusRefunded
	b.Payment.Status = PaymentRefunded
	b.UpdatedAt = now.UTC()
	b.Record(RefundSettled{BookingID: b.ID, Refund: b.Cancellation.Refund, At: b.UpdatedAt})
	return nil
}

// AddReview appends an owned review. Only completed trips may be reviewed.
func (b *Booking) AddReview(rating int, comment string, now time.Time) error {
	if b.Status != StatusCompleted {
		return ErrReviewTooEarly
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	b.Reviews = append(b.Reviews, Review{Rating: rating, Comment: comment, Date: now.UTC()})
	b.UpdatedAt = now.UTC()
	return nil
}
