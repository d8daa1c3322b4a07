package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch converts every build script under dir whenever it is written,
// until ctx is done. onResult is called once per conversion, never
// concurrently, and never after Watch returns.
func (e *Engine) Watch(ctx context.Context, dir string, onResult func(FileResult)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDir(watcher, dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	e.logger.Info("watching for changes", "dir", dir)

	w := &watchLoop{engine: e, onResult: onResult, timers: make(map[string]*time.Timer)}
	defer w.stop()
	return w.run(ctx, watcher)
}

// watchDir adds dir and its subdirectories to the watcher.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

type watchLoop struct {
	engine   *Engine
	onResult func(FileResult)

	mu      sync.Mutex // guards timers and stopped, serializes onResult
	timers  map[string]*time.Timer
	stopped bool
	pending sync.WaitGroup // scheduled or running conversions
}

func (w *watchLoop) run(ctx context.Context, watcher *fsnotify.Watcher) error {
	logger := w.engine.logger
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// New directories are watched too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchDir(watcher, event.Name); err != nil {
						logger.Warn("failed to watch directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}

			if filepath.Ext(event.Name) != groovyExt {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// schedule converts path once writes to it have settled.
func (w *watchLoop) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	// A timer stopped before firing never runs its callback.
	if t, ok := w.timers[path]; ok && t.Stop() {
		w.pending.Done()
	}
	w.pending.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.engine.cfg.Debounce, func() {
		defer w.pending.Done()

		w.mu.Lock()
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}

		w.engine.logger.Debug("change detected", "path", path)
		res, err := w.engine.ConvertFile(path)
		res.Err = err

		w.mu.Lock()
		defer w.mu.Unlock()
		if w.timers[path] == timer {
			delete(w.timers, path)
		}
		if w.onResult != nil {
			w.onResult(*res)
		}
	})
	w.timers[path] = timer
}

// stop cancels pending conversions and waits for running ones.
func (w *watchLoop) stop() {
	w.mu.Lock()
	w.stopped = true
	for path, t := range w.timers {
		if t.Stop() {
			w.pending.Done()
		}
		delete(w.timers, path)
	}
	w.mu.Unlock()

	w.pending.Wait()
}
