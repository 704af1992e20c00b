package dto

import (
	"time"

	"wayfare/internal/domain/booking"
	"wayfare/internal/domain/shared/money"
)

// BookingView is the read shape queries return to the transport layer.
type BookingView struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	UserID        string `json:"user_id"`
	PackageID     string `json:"package_id"`
	DestinationID string `json:"destination_id"`

	Travelers    TravelersView `json:"travelers"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	DurationDays int           `json:"duration_days"`

	Status        string      `json:"status"`
	Total         money.Money `json:"total"`
	TotalPaid     money.Money `json:"total_paid"`
	Remaining     money.Money `json:"remaining"`
	PaymentStatus string      `json:"payment_status"`
	Transactions  int         `json:"transactions"`

	Cancelled    *CancellationView `json:"cancellation,omitempty"`
	Reviews      []ReviewView      `json:"reviews,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type TravelersView struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

type CancellationView struct {
	Refund money.Money `json:"refund"`
	Fee    money.Money `json:"fee"`
	Reason string      `json:"reason,omitempty"`
	Date   time.Time   `json:"date"`
}

type ReviewView struct {
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

// MapBookingView projects the aggregate into its read shape.
func MapBookingView(b *booking.Booking) BookingView {
	view := BookingView{
		ID:            string(b.ID),
		Code:          b.Code,
		UserID:        b.UserID,
		PackageID:     string(b.PackageID),
		DestinationID: string(b.DestinationID),
		Travelers: TravelersView{
			Adults:   b.Travelers.Adults,
			Children: b.Travelers.Children,
			Infants:  b.Travelers.Infants,
		},
		Start:         b.Dates.Start,
		End:           b.Dates.End,
		DurationDays:  b.DurationDays,
		Status:        string(b.Status),
		Total:         b.Pricing.Total,
		TotalPaid:     b.Payment.TotalPaid,
		Remaining:     b.Payment.Remaining,
		PaymentStatus: string(b.Payment.Status),
		Transactions:  len(b.Payment.Transactions),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.Status == booking.StatusCancelled || b.Status == booking.StatusRefunded {
		view.Cancelled = &CancellationView{
			Refund: b.Cancellation.Refund,
			Fee:    b.Cancellation.Fee,
			Reason: b.Cancellation.Reason,
			Date:   b.Cancellation.Date,
		}
	}
	for _, r := range b.Reviews {
		view.Reviews = append(view.Reviews, ReviewView{Rating: r.Rating, Comment: r.Comment, Date: r.Date})
	}
	return view
}
