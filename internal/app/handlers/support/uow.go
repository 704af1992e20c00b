package support

import (
	"context"

	"wayfare/internal/app/uow"
)

// BeginUnit reuses a unit of work from context or starts a managed one via
// the factory. The returned commit func is nil when the unit is reused: the
// outer owner commits in that case. cleanup rolls back a managed unit that
// was never committed and is a no-op otherwise.
func BeginUnit(ctx context.Context, factory uow.UoWFactory, opts uow.TxOptions) (unit uow.UnitOfWork, execCtx context.Context, commit func(context.Context) error, cleanup func(), err error) {
	if existing, ok := uow.FromContext(ctx); ok {
		return existing, ctx, nil, func() {}, nil
	}
	if factory == nil {
		return nil, ctx, nil, nil, uow.ErrUnitOfWorkMissing
	}
	unit, err = factory.Begin(ctx, opts)
	if err != nil {
		return nil, ctx, nil, nil, err
	}
	execCtx = ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, unit)
	committed := false
	commit = func(c context.Context) error {
		if err := unit.Commit(c); err != nil {
			return err
		}
		committed = true
		return nil
	}
	cleanup = func() {
		if !committed {
			_ = unit.Rollback(execCtx)
		}
	}
	return unit, execCtx, commit, cleanup, nil
}

// BeginReadOnlyUnit is BeginUnit for queries; read-only units are rolled
// back on cleanup and never committed.
func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	unit, execCtx, _, cleanup, err := BeginUnit(ctx, factory, uow.TxOptions{ReadOnly: true})
	return unit, execCtx, cleanup, err
}
