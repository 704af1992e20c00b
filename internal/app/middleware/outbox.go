package middleware

import (
	"context"

	"wayfare/internal/app/commands"
	"wayfare/internal/app/outbox"
)

// OutboxFlush hands staged event records to the publisher once the handler
// and its unit of work have succeeded. A flush failure surfaces to the
// caller; records already committed to the store stay put for the worker
// to retry.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		return dispatchFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
