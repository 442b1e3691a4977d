package rule

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watch loads path into the engine and reloads it whenever the file changes.
// The parent directory is watched so editors that save by rename are seen.
// Reload failures are sent on the returned channel and leave the previous
// rules in place. The channel is closed once ctx is canceled.
func (e *Engine) Watch(ctx context.Context, path string, debounce time.Duration) (<-chan error, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := e.Load(abs); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}
	e.logger.Debug("watching rule file", "file", abs)

	errs := make(chan error, 1)
	reload := make(chan struct{}, 1)

	go func() {
		defer watcher.Close()
		defer close(errs)

		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			case <-reload:
				if err := e.Load(abs); err != nil {
					e.logger.Error("rule reload failed", "file", abs, "error", err)
					select {
					case errs <- err:
					default:
					}
					continue
				}
				e.logger.Info("rules reloaded", "file", abs)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				e.logger.Error("rule watcher error", "error", err)
			}
		}
	}()

	return errs, nil
}
