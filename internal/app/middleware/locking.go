package middleware

import (
	"context"
	"sort"
	"time"

	"wayfare/internal/app/commands"
	"wayfare/internal/app/locks"
)

// LockingCommand is implemented by commands that must hold keyed locks for
// the duration of their handler. Keys are acquired in sorted order so two
// commands contending for overlapping key sets cannot deadlock.
type LockingCommand interface {
	commands.Command
	LockKeys() []string
}

func Locking(manager locks.Manager, ttl time.Duration) CommandMiddleware {
	if manager == nil {
		panic("middleware: lock manager required")
	}
	return func(next commands.Bus) commands.Bus {
		return dispatchFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			lockCmd, ok := cmd.(LockingCommand)
			if !ok {
				return next.Dispatch(ctx, cmd)
			}
			keys := append([]string(nil), lockCmd.LockKeys()...)
			sort.Strings(keys)
			releases := make([]locks.Release, 0, len(keys))
			defer func() {
				for i := len(releases) - 1; i >= 0; i-- {
					releases[i]()
				}
			}()
			for _, key := range keys {
				if key == "" {
					continue
				}
				release, err := manager.Acquire(ctx, key, ttl)
				if err != nil {
					return nil, err
				}
				releases = append(releases, release)
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}
