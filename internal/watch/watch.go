// Package watch re-runs an action when a file changes on disk
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/KirkDiggler/lorelegacy/internal/errors"
)

// DefaultDebounce groups the burst of events an editor save produces
const DefaultDebounce = 300 * time.Millisecond

// Config configures File
type Config struct {
	Path     string
	Debounce time.Duration
	// OnChange runs after each settled change. Its errors are logged and
	// watching goes on.
	OnChange func(ctx context.Context) error
}

// Validate ensures the watch can start
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Path", c.Path, vb)
	if c.OnChange == nil {
		vb.RequiredField("OnChange")
	}
	return vb.Build()
}

// File blocks until ctx is done, calling OnChange whenever the file is
// written, created or renamed into place. The parent directory is watched
// so editors that replace the file are followed.
func File(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	target, err := filepath.Abs(cfg.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", cfg.Path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(target))
	}

	slog.InfoContext(ctx, "Watching file", "path", target)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			if err := cfg.OnChange(ctx); err != nil {
				slog.ErrorContext(ctx, "Change handler failed", "path", target, "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "Watcher error", "path", target, "error", err)
		}
	}
}
