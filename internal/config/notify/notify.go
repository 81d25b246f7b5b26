// Package notify broadcasts configuration replacement events.
//
// The resolver replaces its published configuration as a whole, so there
// are no per-setting paths to subscribe to: every observer sees every
// replacement, carrying the old value, the new value, and the provenance
// of the source that produced it.
package notify

import (
	"sync"
)

// Change represents one configuration replacement.
type Change struct {
	// Source names the provenance of the new value
	// ("baseline", "cache", "remote").
	Source string

	// Old is the previously published configuration (nil before the first
	// adoption).
	Old any

	// New is the newly published configuration. Never nil.
	New any
}

// Observer is called for each configuration replacement.
type Observer func(change Change)

// Subscription represents an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages configuration change subscriptions.
type Notifier struct {
	mu        sync.RWMutex
	observers map[uint64]Observer
	nextID    uint64
	closed    bool

	// Async delivery
	async  bool
	buffer chan Change
	done   chan struct{}
	wg     sync.WaitGroup
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync enables buffered asynchronous delivery. Observers then run on
// the notifier's goroutine instead of the writer's.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Change, bufferSize)
		}
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		observers: make(map[uint64]Observer),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.async {
		n.wg.Add(1)
		go n.processAsync()
	}

	return n
}

// Subscribe registers an observer for all configuration replacements.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = observer

	return &Subscription{id: id, notifier: n}
}

// Notify delivers a change to all observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	n.mu.RUnlock()

	if n.async {
		select {
		case n.buffer <- change:
		case <-n.done:
		}
		return
	}

	n.deliver(change)
}

// Close shuts down the notifier. Safe to call multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

// unsubscribe removes an observer by ID.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

// deliver calls every observer with the change, outside the lock.
func (n *Notifier) deliver(change Change) {
	n.mu.RLock()
	observers := make([]Observer, 0, len(n.observers))
	for _, obs := range n.observers {
		observers = append(observers, obs)
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

// processAsync drains the buffer until Close, then delivers any remaining
// buffered changes.
func (n *Notifier) processAsync() {
	defer n.wg.Done()

	for {
		select {
		case change := <-n.buffer:
			n.deliver(change)
		case <-n.done:
			for {
				select {
				case change := <-n.buffer:
					n.deliver(change)
				default:
					return
				}
			}
		}
	}
}
