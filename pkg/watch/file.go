package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultFileDebounce absorbs the several events editors emit per save.
const DefaultFileDebounce = 250 * time.Millisecond

// FileWatcher calls a reload function when a single file changes. The parent
// directory is watched so rename-over-save editors are seen too.
type FileWatcher struct {
	mu      sync.RWMutex
	watcher *fsnotify.Watcher
	path    string
	deb     *Debouncer
	logger  *zap.Logger
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool

	stats FileWatcherStats
}

// FileWatcherStats counts watcher activity.
type FileWatcherStats struct {
	Events        int
	Reloads       int
	Errors        int
	LastEventTime time.Time
	LastEventOp   string
}

// NewFileWatcher prepares a watcher for path; onChange runs after delay of
// quiet following the last relevant event.
func NewFileWatcher(path string, delay time.Duration, onChange func(path string), logger *zap.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fw := &FileWatcher{
		watcher: w,
		path:    abs,
		logger:  logger.With(zap.String("path", abs)),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	fw.deb = NewDebouncer(delay, func() {
		fw.mu.Lock()
		fw.stats.Reloads++
		fw.mu.Unlock()
		fw.logger.Debug("file settled, reloading")
		onChange(fw.path)
	})
	return fw, nil
}

// Start begins watching. It does not block.
func (fw *FileWatcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	fw.running = true
	fw.mu.Unlock()

	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		return fmt.Errorf("watch %s: %w", filepath.Dir(fw.path), err)
	}
	fw.logger.Info("watching collection")

	go fw.run(ctx)
	return nil
}

// Stop stops the watcher, cancels a pending reload and waits for the event
// loop to exit.
func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		_ = fw.watcher.Close()
		return
	}
	fw.running = false
	fw.mu.Unlock()

	close(fw.stopCh)
	<-fw.doneCh
	fw.deb.Stop()

	if err := fw.watcher.Close(); err != nil {
		fw.logger.Error("close watcher", zap.Error(err))
	}
}

func (fw *FileWatcher) run(ctx context.Context) {
	defer close(fw.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.stopCh:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("watcher error", zap.Error(err))
			fw.mu.Lock()
			fw.stats.Errors++
			fw.mu.Unlock()
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != fw.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	fw.logger.Debug("collection event", zap.String("op", event.Op.String()))

	fw.mu.Lock()
	fw.stats.Events++
	fw.stats.LastEventTime = time.Now()
	fw.stats.LastEventOp = event.Op.String()
	fw.mu.Unlock()

	fw.deb.Trigger()
}

// Stats returns a snapshot of the watcher counters.
func (fw *FileWatcher) Stats() FileWatcherStats {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.stats
}
