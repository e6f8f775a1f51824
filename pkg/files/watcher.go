package files

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures a storage watcher
type WatcherConfig struct {
	// DebounceDelay is how long to wait for more changes before signalling
	DebounceDelay time.Duration

	// Logger for watcher events
	Logger *slog.Logger
}

// Watcher signals when another process changed a key of a FileStore.
// Writes made through the same FileStore are not signalled.
type Watcher struct {
	store   *FileStore
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	delay   time.Duration

	pendingMu sync.Mutex
	pending   map[string]struct{}

	changes chan string
	done    chan struct{}
	once    sync.Once
}

// NewWatcher creates a watcher for the store directory
func NewWatcher(store *FileStore, config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create storage watcher: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	delay := config.DebounceDelay
	if delay == 0 {
		delay = 100 * time.Millisecond
	}

	return &Watcher{
		store:   store,
		watcher: fsw,
		logger:  logger,
		delay:   delay,
		pending: make(map[string]struct{}),
		changes: make(chan string, 16),
		done:    make(chan struct{}),
	}, nil
}

// Changes delivers the key of every externally changed entry
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Start begins watching. The watcher stops when ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.store.Dir()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.store.Dir(), err)
	}
	go w.processEvents(ctx)

	w.logger.Info("storage watcher started", "dir", w.store.Dir(), "debounce", w.delay)
	return nil
}

// Stop stops watching and closes the Changes channel
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.changes)

	timer := time.NewTimer(w.delay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			key, ok := w.store.KeyForPath(event.Name)
			if !ok {
				continue
			}
			w.pendingMu.Lock()
			w.pending[key] = struct{}{}
			w.pendingMu.Unlock()
			timer.Reset(w.delay)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("storage watcher error", "error", err)

		case <-timer.C:
			w.flush(ctx)
		}
	}
}

// flush emits every pending key whose content is not what we wrote
func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	keys := make([]string, 0, len(w.pending))
	for key := range w.pending {
		keys = append(keys, key)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	for _, key := range keys {
		data, err := os.ReadFile(w.store.Path(key))
		if err != nil {
			w.logger.Debug("changed entry not readable", "key", key, "error", err)
			continue
		}
		if !w.store.observe(key, data) {
			continue
		}

		w.logger.Debug("storage changed externally", "key", key)
		select {
		case w.changes <- key:
		case <-ctx.Done():
			return
		case <-w.done:
			return
		}
	}
}
