package booking

import (
	"context"
	"strings"

	"wayfare/internal/app/dto"
	"wayfare/internal/app/handlers/support"
	"wayfare/internal/app/queries"
	"wayfare/internal/app/uow"
	domainbooking "wayfare/internal/domain/booking"
)

const (
	getBookingKey       = "booking.get"
	listUserBookingsKey = "booking.list_by_user"
)

type GetBookingQuery struct {
	BookingID string
}

func (q GetBookingQuery) Key() string { return getBookingKey }

type GetBookingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (dto.BookingView, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingView{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	bk, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(q.BookingID))
	if err != nil {
		return dto.BookingView{}, err
	}
	return dto.MapBookingView(bk), nil
}

type ListUserBookingsQuery struct {
	UserID string
}

func (q ListUserBookingsQuery) Key() string { return listUserBookingsKey }

type BookingCollection struct {
	Items []dto.BookingView `json:"items"`
}

type ListUserBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListUserBookingsHandler) Handle(ctx context.Context, q ListUserBookingsQuery) (BookingCollection, error) {
	userID := strings.TrimSpace(q.UserID)
	if userID == "" {
		return BookingCollection{}, domainbooking.ErrUserRequired
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.Bookings().ListByUser(execCtx, userID)
	if err != nil {
		return BookingCollection{}, err
	}
	out := BookingCollection{Items: make([]dto.BookingView, 0, len(items))}
	for _, bk := range items {
		out.Items = append(out.Items, dto.MapBookingView(bk))
	}
	return out, nil
}

var _ queries.Handler[GetBookingQuery, dto.BookingView] = (*GetBookingHandler)(nil)
var _ queries.Handler[ListUserBookingsQuery, BookingCollection] = (*ListUserBookingsHandler)(nil)
