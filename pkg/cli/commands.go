package cli

import (
	"context"
	"fmt"

	"github.com/funvibe/tower/internal/cache"
	"github.com/funvibe/tower/internal/watch"
)

func (a *app) handleWatch(ctx context.Context, args []string) int {
	dir := "."
	switch len(args) {
	case 0:
		if d := a.cfg.Dir(); d != "" {
			dir = d
		}
	case 1:
		dir = args[0]
	default:
		fmt.Fprintf(a.stderr, "Usage: tower watch [dir]\n")
		return ExitUsage
	}

	store := a.openCache(ctx)
	if store != nil {
		defer store.Close()
	}

	err := watch.Watch(ctx, dir, a.log, func(path string) error {
		return a.checkFile(ctx, path, store)
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "tower: watching %s: %v\n", dir, err)
		return ExitFailed
	}
	return ExitOK
}

func (a *app) handleCache(ctx context.Context, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(a.stderr, "Usage: tower cache clean|path\n")
		return ExitUsage
	}

	switch args[0] {
	case "path":
		fmt.Fprintln(a.stdout, a.cfg.CachePath())
		return ExitOK
	case "clean":
		c, err := cache.Open(ctx, a.cfg.CachePath())
		if err != nil {
			fmt.Fprintf(a.stderr, "tower: %v\n", err)
			return ExitFailed
		}
		defer c.Close()
		n, err := c.Clean(ctx)
		if err != nil {
			fmt.Fprintf(a.stderr, "tower: %v\n", err)
			return ExitFailed
		}
		fmt.Fprintf(a.stdout, "removed %d cached runs\n", n)
		return ExitOK
	}
	fmt.Fprintf(a.stderr, "Unknown cache command: %s\n", args[0])
	return ExitUsage
}
