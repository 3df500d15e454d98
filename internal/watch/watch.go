// Package watch reruns the indexing pipeline when files under the documents
// root change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long file activity must stay quiet before a rerun.
// Bulk operations (git checkout, unzip) collapse into a single pass.
const debounceDelay = 500 * time.Millisecond

// Watch starts an fsnotify watcher on root and calls rerun after file
// activity settles. Only events for eligible file names count; dot
// directories are never watched, so writes to the generated outputs or
// editor droppings do not retrigger the pipeline. Rerun errors are logged
// and watching continues. Watch returns when ctx is cancelled or the
// watcher's channels close.
//
// New directories created at runtime are automatically added to the watch
// list.
func Watch(ctx context.Context, root string, eligible func(name string) bool, logger *slog.Logger, rerun func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: new watcher: %w", err)
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return fmt.Errorf("watch: add dirs: %w", err)
	}

	logger.Info("watch: started", slog.String("root", root))

	// debounce collapses event bursts into one rerun.
	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(debounceDelay)
			debounceCh = debounce.C
		} else {
			debounce.Reset(debounceDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-debounceCh:
			if err := rerun(); err != nil {
				logger.Error("watch: rerun failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}

			// New directories join the watch list; their contents are
			// picked up by the scheduled rescan.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if strings.HasPrefix(filepath.Base(ev.Name), ".") {
						continue
					}
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watch: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watch: watching new dir", slog.String("path", ev.Name))
					}
					schedule()
					continue
				}
			}

			if !eligible(filepath.Base(ev.Name)) {
				continue
			}
			logger.Debug("watch: change detected",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its non-hidden subdirectories to the
// watcher. The root itself is added even when its own name starts with ".".
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		return w.Add(path)
	})
}
