package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wayfare/internal/app/commands"
	"wayfare/internal/app/dto"
	BookingApp "wayfare/internal/app/handlers/booking"
	"wayfare/internal/app/queries"
	domainbooking "wayfare/internal/domain/booking"
	domainpricing "wayfare/internal/domain/pricing"
	"wayfare/internal/domain/shared/money"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	PackageID     string `json:"package_id" binding:"required"`
	DestinationID string `json:"destination_id" binding:"required"`

	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`

	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`

	AccommodationType string `json:"accommodation_type"`
	RoomType          string `json:"room_type"`
	Rooms             int    `json:"rooms"`

	FlightRequired bool   `json:"flight_required"`
	FlightClass    string `json:"flight_class"`

	DiscountMinor int64 `json:"discount_minor"`

	// Optional client-side total; when present the server verifies it
	// against its own computation instead of silently repricing.
	QuotedTotalMinor int64  `json:"quoted_total_minor"`
	Currency         string `json:"currency"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := BookingApp.CreateBookingCommand{
		CommandID:     uuid.NewString(),
		UserID:        req.UserID,
		PackageID:     req.PackageID,
		DestinationID: req.DestinationID,
		Travelers: domainpricing.Travelers{
			Adults:   req.Adults,
			Children: req.Children,
			Infants:  req.Infants,
		},
		Start: req.Start,
		End:   req.End,
		Accommodation: domainbooking.Accommodation{
			Type:     domainpricing.AccommodationType(req.AccommodationType),
			RoomType: req.RoomType,
			Rooms:    req.Rooms,
		},
		Transportation: domainbooking.Transportation{
			FlightRequired: req.FlightRequired,
			FlightClass:    domainpricing.FlightClass(req.FlightClass),
		},
		Discounts:       money.Money{Amount: req.DiscountMinor, Currency: req.Currency},
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	if req.QuotedTotalMinor != 0 {
		cmd.QuotedTotal = money.Money{Amount: req.QuotedTotalMinor, Currency: req.Currency}
	}
	result, err := commands.Dispatch[BookingApp.CreateBookingCommand, *BookingApp.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type addPaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	AmountMinor   int64  `json:"amount_minor" binding:"required"`
	Currency      string `json:"currency" binding:"required"`
	Method        string `json:"method" binding:"required"`
}

func (h BookingHandler) AddPayment(c *gin.Context) {
	var req addPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := BookingApp.AddPaymentCommand{
		BookingID:       c.Param("id"),
		TransactionID:   req.TransactionID,
		Amount:          money.Money{Amount: req.AmountMinor, Currency: req.Currency},
		Method:          req.Method,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[BookingApp.AddPaymentCommand, *BookingApp.AddPaymentResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	cmd := BookingApp.CancelBookingCommand{
		BookingID:       c.Param("id"),
		Reason:          req.Reason,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[BookingApp.CancelBookingCommand, *BookingApp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Complete(c *gin.Context) {
	cmd := BookingApp.CompleteTripCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[BookingApp.CompleteTripCommand, *BookingApp.CompleteTripResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) SettleRefund(c *gin.Context) {
	cmd := BookingApp.SettleRefundCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[BookingApp.SettleRefundCommand, *BookingApp.SettleRefundResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type addReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (h BookingHandler) AddReview(c *gin.Context) {
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := BookingApp.AddReviewCommand{
		BookingID: c.Param("id"),
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	result, err := commands.Dispatch[BookingApp.AddReviewCommand, *BookingApp.AddReviewResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	q := BookingApp.GetBookingQuery{BookingID: c.Param("id")}
	view, err := queries.Ask[BookingApp.GetBookingQuery, dto.BookingView](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h BookingHandler) ListByUser(c *gin.Context) {
	q := BookingApp.ListUserBookingsQuery{UserID: c.Param("id")}
	collection, err := queries.Ask[BookingApp.ListUserBookingsQuery, BookingApp.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

var _ BookingHTTP = BookingHandler{}
