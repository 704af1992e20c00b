package uow

import (
	"context"
	"errors"

	"wayfare/internal/domain/booking"
	"wayfare/internal/domain/catalog"
)

// UnitOfWork scopes repository access to one atomic piece of work. A
// handler resolves the booking and catalog repositories from the same
// unit so its reads and writes land in one transaction.
type UnitOfWork interface {
	Bookings() booking.Repository
	Packages() catalog.PackageRepository
	Destinations() catalog.DestinationRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}

// ErrUnitOfWorkMissing signals a handler ran outside a transaction
// boundary that should have provided one.
var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type ctxKey struct{}

// ContextWithUnitOfWork threads unit through ctx. The Mongo unit also
// embeds its session context here so repository calls join the session.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(ctxKey{}).(UnitOfWork)
	return unit, ok
}
