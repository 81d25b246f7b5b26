// Package watcher provides modification polling for a single file.
//
// The resolver uses it to notice cache updates written by a sibling
// process (for example the flightconfig CLI publishing an override on the
// same machine) without restarting.
package watcher

import (
	"context"
	"os"
	"sync"
	"time"
)

// Event represents a detected change to the watched file.
type Event struct {
	// Path is the watched file path.
	Path string

	// Removed is true when the file disappeared.
	Removed bool

	// Time is when the change was detected.
	Time time.Time
}

// Handler is called when a change is detected.
type Handler func(event Event)

// Watcher polls one file's modification time.
type Watcher struct {
	mu      sync.Mutex
	path    string
	handler Handler

	interval time.Duration
	lastMod  time.Time
	running  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher for path. A non-positive interval falls back to
// one second.
func New(path string, interval time.Duration, handler Handler) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	w := &Watcher{
		path:     path,
		handler:  handler,
		interval: interval,
	}
	if info, err := os.Stat(path); err == nil {
		w.lastMod = info.ModTime()
	}
	return w
}

// Start begins polling. Idempotent.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.poll()
}

// Stop stops polling and waits for the poll goroutine. Idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if event := w.check(); event != nil {
				w.safeCall(*event)
			}
		}
	}
}

// check compares the file's current modification time against the last
// observed one and returns an event when they differ.
func (w *Watcher) check() *Event {
	info, err := os.Stat(w.path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if os.IsNotExist(err) {
		if w.lastMod.IsZero() {
			return nil
		}
		w.lastMod = time.Time{}
		return &Event{Path: w.path, Removed: true, Time: time.Now()}
	}
	if err != nil {
		return nil
	}

	mod := info.ModTime()
	if mod.Equal(w.lastMod) {
		return nil
	}
	w.lastMod = mod
	return &Event{Path: w.path, Time: time.Now()}
}

// safeCall invokes the handler with panic recovery so a panicking handler
// cannot kill the poll goroutine.
func (w *Watcher) safeCall(event Event) {
	defer func() {
		_ = recover()
	}()
	w.handler(event)
}
