package fontgen

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/oshokin/hermesx-build/internal/logger"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 300 * time.Millisecond

// watch regenerates the font after every change of the charset file.
// The folder is watched rather than the file so editors that replace the file survive.
func (g *generator) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() {
		_ = watcher.Close()
	}()

	charset := filepath.Clean(g.cfg.CharsetPath())
	if err = watcher.Add(filepath.Dir(charset)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(charset), err)
	}

	logger.InfoKV(ctx, "Watching charset for changes", "path", charset)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	defer timer.Stop()

	// The marker would otherwise expire while the watcher is still alive.
	refresh := time.NewTicker(markerRefresh)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != charset {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			logger.DebugKV(ctx, "Charset changed", "op", event.Op.String())
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorKV(ctx, "Watcher failed", "error", err)
		case <-refresh.C:
			refreshMarker(ctx, g.cfg.CacheDir())
		case <-timer.C:
			if err = g.generate(ctx); err != nil {
				logger.ErrorKV(ctx, "Regeneration failed", "error", err)
				continue
			}

			logger.Info(ctx, "Font regenerated")
		}
	}
}
