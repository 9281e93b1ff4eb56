package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/sehatlink/sehat-mcp/internal/logger"
)

var log = logger.ForComponent("watcher")

// Watcher observes the reference data directory. Rules and facilities
// load once at startup, so an on-disk edit means the running process is
// serving stale data; the watcher surfaces that instead of reloading.
type Watcher struct {
	config    Config
	dataDir   string
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	onStale   func([]FileEvent)
	mu        sync.Mutex
	running   bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// New builds a watcher over dataDir. onStale receives each debounced
// batch of reference file changes; nil means log-only.
func New(dataDir string, config Config, onStale func([]FileEvent)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		config:    config,
		dataDir:   dataDir,
		fsWatcher: fsWatcher,
		onStale:   onStale,
	}
	w.debouncer = NewDebouncer(config.DebounceWindow, config.MaxBatchSize, w.reportStale)

	return w, nil
}

func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	if err := w.fsWatcher.Add(w.dataDir); err != nil {
		return err
	}

	log.Info("watching reference data", "dir", w.dataDir)
	go w.handleEvents()

	return nil
}

func (w *Watcher) handleEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			fileEvent := w.convertEvent(event)
			if fileEvent != nil {
				log.Debug("reference file event", "path", event.Name, "op", event.Op.String())
				w.debouncer.Add(*fileEvent)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Debug("watch error", "error", err)
		}
	}
}

func (w *Watcher) convertEvent(event fsnotify.Event) *FileEvent {
	if !w.relevant(event.Name) {
		return nil
	}

	var eventType EventType

	switch {
	case event.Has(fsnotify.Create):
		eventType = EventCreate
	case event.Has(fsnotify.Write):
		eventType = EventModify
	case event.Has(fsnotify.Remove):
		eventType = EventDelete
	case event.Has(fsnotify.Rename):
		eventType = EventRename
	default:
		return nil
	}

	return &FileEvent{
		Path:      event.Name,
		Type:      eventType,
		Timestamp: time.Now(),
	}
}

func (w *Watcher) relevant(path string) bool {
	name := filepath.Base(path)
	for _, pattern := range w.config.WatchPatterns {
		if match, _ := doublestar.Match(pattern, name); match {
			return true
		}
	}
	return false
}

func (w *Watcher) reportStale(events []FileEvent) {
	files := make([]string, len(events))
	for i, event := range events {
		files[i] = filepath.Base(event.Path)
	}

	log.Warn("reference data changed on disk; restart the server to load it",
		"dir", w.dataDir,
		"files", files,
	)

	if w.onStale != nil {
		w.onStale(events)
	}
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.cancel()
	w.mu.Unlock()

	w.debouncer.Stop()
	return w.fsWatcher.Close()
}
