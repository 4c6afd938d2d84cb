package fsstore

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

type WatchOptions struct {
	Debounce time.Duration
	Logger   *slog.Logger
	// OnReload runs after every reload attempt with its result. A failed
	// reload leaves the previous index in place.
	OnReload func(err error)
}

// Watch reloads store whenever a file under dir changes. dir must be the
// on-disk directory store was opened on. Watch blocks until ctx is done.
func Watch(ctx context.Context, dir string, store *Store, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, dir); err != nil {
		return err
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				// New part, chapter or exercise directories need their own watch.
				if err := watchDirRecursive(watcher, event.Name); err != nil {
					logger.Debug("watch new path failed", "path", event.Name, "error", err)
				}
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			changed := event.Name
			debounceTimer = time.AfterFunc(opts.Debounce, func() {
				logger.Debug("content changed, reloading", "file", changed)
				err := store.Reload()
				if err != nil {
					logger.Error("content reload failed", "error", err)
				} else {
					logger.Info("content reloaded", "exercises", len(store.Slugs()))
				}
				if opts.OnReload != nil {
					opts.OnReload(err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
