package middleware

import (
	"context"

	"wayfare/internal/app/commands"
	"wayfare/internal/app/queries"
)

// CommandMiddleware decorates a command bus. ChainCommands applies the
// slice outermost first: the first middleware sees every command before
// the rest of the chain and the handler.
type CommandMiddleware func(next commands.Bus) commands.Bus

// QueryMiddleware decorates a query bus the same way.
type QueryMiddleware func(next queries.Bus) queries.Bus

func ChainCommands(base commands.Bus, mws ...CommandMiddleware) commands.Bus {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

func ChainQueries(base queries.Bus, mws ...QueryMiddleware) queries.Bus {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// dispatchFunc adapts a closure to commands.Bus so a decorator does not
// need a struct of its own.
type dispatchFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f dispatchFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

type askFunc func(ctx context.Context, q queries.Query) (any, error)

func (f askFunc) Ask(ctx context.Context, q queries.Query) (any, error) {
	return f(ctx, q)
}
