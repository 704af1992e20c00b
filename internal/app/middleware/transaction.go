package middleware

import (
	"context"

	"wayfare/internal/app/commands"
	"wayfare/internal/app/uow"
)

// TxOptionsProvider lets the wiring vary transaction options per command
// type.
type TxOptionsProvider func(cmd commands.Command) uow.TxOptions

// Transaction opens a unit of work around every dispatch and exposes it to
// the handler through the context. Handlers that begin their own unit, the
// default wiring here, must not also sit behind this middleware or they
// would nest transactions.
func Transaction(factory uow.UoWFactory, optsFor TxOptionsProvider) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		return dispatchFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			var opts uow.TxOptions
			if optsFor != nil {
				opts = optsFor(cmd)
			}
			unit, err := factory.Begin(ctx, opts)
			if err != nil {
				return nil, err
			}
			execCtx := uow.ContextWithUnitOfWork(sessionContext(ctx, unit), unit)

			// Rollback on every exit except a successful commit, panics
			// included.
			committed := false
			defer func() {
				if !committed {
					_ = unit.Rollback(execCtx)
				}
			}()

			res, err := next.Dispatch(execCtx, cmd)
			if err != nil {
				return nil, err
			}
			if err := unit.Commit(execCtx); err != nil {
				return nil, err
			}
			committed = true
			return res, nil
		})
	}
}

// sessionContext lets storage-backed units bind their session to the
// context, the way the mongo unit of work does.
func sessionContext(ctx context.Context, unit uow.UnitOfWork) context.Context {
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		return injector.InjectContext(ctx)
	}
	return ctx
}
