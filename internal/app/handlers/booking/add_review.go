package booking

import (
	"context"
	"time"

	"wayfare/internal/app/commands"
	"wayfare/internal/app/handlers/support"
	"wayfare/internal/app/locks"
	"wayfare/internal/app/middleware"
	"wayfare/internal/app/uow"
	domainbooking "wayfare/internal/domain/booking"
)

const addReviewKey = "booking.add_review"

type AddReviewCommand struct {
	BookingID string
	Rating    int
	Comment   string
}

func (c AddReviewCommand) Key() string { return addReviewKey }

func (c AddReviewCommand) LockKeys() []string {
	return []string{locks.BookingKey(c.BookingID)}
}

type AddReviewResult struct {
	BookingID string `json:"booking_id"`
	Reviews   int    `json:"reviews"`
}

type AddReviewHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *AddReviewHandler) Handle(ctx context.Context, cmd AddReviewCommand) (*AddReviewResult, error) {
	unit, execCtx, commit, cleanup, err := support.BeginUnit(ctx, h.UoWFactory, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer cleanup()

	bk, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if err := bk.AddReview(cmd.Rating, cmd.Comment, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(execCtx, bk); err != nil {
		return nil, err
	}
	if commit != nil {
		if err := commit(execCtx); err != nil {
			return nil, err
		}
	}
	return &AddReviewResult{BookingID: string(bk.ID), Reviews: len(bk.Reviews)}, nil
}

var _ commands.Handler[AddReviewCommand, *AddReviewResult] = (*AddReviewHandler)(nil)
var _ middleware.LockingCommand = AddReviewCommand{}
