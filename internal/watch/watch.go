// Package watch re-runs a build whenever a source file in a directory is
// written or created.
package watch

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/funvibe/tower/internal/config"
)

// IsSource reports whether path names a source file.
func IsSource(path string) bool {
	return strings.HasSuffix(path, config.SourceFileExt)
}

// Watch blocks until ctx is done, calling build with the path of every
// changed source file under dir. Build failures are logged and do not stop
// the watcher. logger may be nil.
func Watch(ctx context.Context, dir string, logger *log.Logger, build func(path string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}
	logf(logger, "watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsSource(event.Name) || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			path := filepath.Clean(event.Name)
			logf(logger, "file changed: %s", path)
			if err := build(path); err != nil {
				logf(logger, "check failed: %v", err)
			} else {
				logf(logger, "check complete")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logf(logger, "watcher error: %v", err)
		}
	}
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
