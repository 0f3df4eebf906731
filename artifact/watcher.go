package artifact

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads the artifacts of a LocalSource when they change on disk. A failed
// reload leaves the current pipeline in place.
type Watcher struct {
	loader   *Loader
	holder   *Holder
	debounce time.Duration
	logger   *zap.Logger
	onReload func(error)
}

func NewWatcher(loader *Loader, holder *Holder, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		loader:   loader,
		holder:   holder,
		debounce: defaultDebounce,
		logger:   logger,
		onReload: func(error) {},
	}
}

// SetDebounce sets how long a burst of file events must settle before reloading.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// OnReload registers a callback invoked after every reload attempt.
func (w *Watcher) OnReload(fn func(error)) {
	if fn != nil {
		w.onReload = fn
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	local, ok := w.loader.Source().(*LocalSource)
	if !ok {
		return fmt.Errorf("artifact watch needs a local source, got %s", w.loader.Source())
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, name := range w.loader.Names().List() {
		path := filepath.Clean(local.Path(name))
		watched[path] = true
		dirs[filepath.Dir(path)] = true
	}
	// Watch directories rather than files so atomic rename-over replacements are seen.
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching artifacts", zap.Int("files", len(watched)))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("artifact changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	pipeline, report, err := w.loader.Load(ctx)
	if err != nil {
		w.logger.Error("artifact reload failed, keeping current pipeline", zap.Error(err))
		w.onReload(err)
		return
	}
	prev, err := w.holder.Swap(pipeline, report)
	if err != nil {
		_ = pipeline.Close()
		w.logger.Error("artifact swap failed", zap.Error(err))
		w.onReload(err)
		return
	}
	if prev != nil {
		if err := prev.Close(); err != nil {
			w.logger.Warn("failed to release previous pipeline", zap.Error(err))
		}
	}
	w.logger.Info("artifacts reloaded", zap.Strings("classes", report.Classes))
	w.onReload(nil)
}
