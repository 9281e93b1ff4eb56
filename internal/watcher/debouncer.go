package watcher

import (
	"sort"
	"sync"
	"time"
)

// Debouncer coalesces bursts of file events. Editors tend to emit
// several events per save; one batch per quiet window is enough to
// report a stale data directory.
type Debouncer struct {
	window  time.Duration
	limit   int
	pending map[string]FileEvent
	mu      sync.Mutex
	timer   *time.Timer
	onFlush func([]FileEvent)
	stopped bool
}

func NewDebouncer(window time.Duration, limit int, onFlush func([]FileEvent)) *Debouncer {
	return &Debouncer{
		window:  window,
		limit:   limit,
		pending: make(map[string]FileEvent),
		onFlush: onFlush,
	}
}

// Add records an event, keeping only the latest per path. The batch
// flushes after a quiet window, or immediately once it reaches the
// size limit.
func (d *Debouncer) Add(event FileEvent) {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.pending[event.Path] = event

	if len(d.pending) >= d.limit {
		d.flushLocked()
		return
	}

	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		d.flushLocked()
	})

	d.mu.Unlock()
}

// flushLocked hands the pending batch to onFlush. It is entered with
// the mutex held and releases it before the callback runs, so the
// callback may call back into the debouncer.
func (d *Debouncer) flushLocked() {
	batch := make([]FileEvent, 0, len(d.pending))
	for _, event := range d.pending {
		batch = append(batch, event)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })

	d.pending = make(map[string]FileEvent)

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.mu.Unlock()

	if len(batch) > 0 && d.onFlush != nil {
		d.onFlush(batch)
	}
}

// Stop flushes anything pending and discards later events.
func (d *Debouncer) Stop() {
	d.mu.Lock()

	if d.stopped {
		d.mu.Unlock()
		return
	}

	d.stopped = true

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if len(d.pending) > 0 {
		d.flushLocked()
	} else {
		d.mu.Unlock()
	}
}
