package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent describes a detected change to the collection file.
type ChangeEvent struct {
	Path      string
	Operation string
	Timestamp time.Time
}

// Watcher monitors the collection file and invokes a callback after changes
// settle. It watches the parent directory rather than the file itself so that
// atomic rename-style saves (including this package's own) are observed.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(ChangeEvent)
	logger   *slog.Logger

	// debounce state
	mu      sync.Mutex
	timer   *time.Timer
	pending *ChangeEvent
	delay   time.Duration
	// last content hash, to skip touch-only events
	lastHash string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for the collection file at path.
func NewWatcher(path string, onChange func(ChangeEvent), logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		watcher:  fsw,
		onChange: onChange,
		logger:   logger,
		delay:    300 * time.Millisecond,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins watching. The parent directory must exist.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("add watch path %s: %w", dir, err)
	}
	if data, err := os.ReadFile(w.path); err == nil {
		w.lastHash = calculateChecksum(data)
	}

	w.wg.Add(1)
	go w.eventLoop()
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.cancel()
	_ = w.watcher.Close()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)

		case <-w.ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return
	}

	op := "modify"
	switch {
	case event.Op&fsnotify.Create != 0:
		op = "create"
	case event.Op&fsnotify.Remove != 0:
		op = "delete"
	case event.Op&fsnotify.Rename != 0:
		op = "rename"
	}

	// Skip events that did not change the content.
	if op == "modify" || op == "create" {
		if data, err := os.ReadFile(w.path); err == nil {
			hash := calculateChecksum(data)
			if hash == w.lastHash {
				return
			}
			w.lastHash = hash
		}
	}

	w.queue(ChangeEvent{Path: w.path, Operation: op, Timestamp: time.Now()})
}

// queue coalesces rapid events; only the last one within the window fires.
func (w *Watcher) queue(ev ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = &ev
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	ev := w.pending
	w.pending = nil
	w.mu.Unlock()

	if ev != nil && w.onChange != nil {
		w.onChange(*ev)
	}
}
