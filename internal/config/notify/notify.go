// Package notify provides change notification for setting updates.
//
// Observers subscribe to every change or to a single setting key. A change
// only tells observers that something moved; they re-read the values they
// care about. Delivery happens on the caller's goroutine unless the
// notifier is created WithAsync.
package notify

import (
	"fmt"
	"sync"
)

// ChangeType represents the type of setting change.
type ChangeType int

const (
	// ChangeSet indicates a value was set and persisted.
	ChangeSet ChangeType = iota

	// ChangeReset indicates a value was restored to its default and its
	// persisted override removed.
	ChangeReset

	// ChangeReload indicates every setting was recomputed.
	ChangeReload

	// ChangeSession indicates a value was set for this session only.
	ChangeSession
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReset:
		return "reset"
	case ChangeReload:
		return "reload"
	case ChangeSession:
		return "session"
	default:
		return "unknown"
	}
}

// Change represents a setting change event.
type Change struct {
	// Key is the changed setting. Empty for reload events.
	Key string

	// Type is the type of change.
	Type ChangeType

	// Source identifies where the change came from.
	Source string
}

// Observer is called when settings change.
type Observer func(change Change)

// ErrorHandler receives panics recovered from observers.
type ErrorHandler func(change Change, err error)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	key      string
	notifier *Notifier
}

// Key returns the key the subscription is bound to, or "" for all keys.
func (s *Subscription) Key() string {
	return s.key
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	// Observers that receive all changes
	globalObservers map[uint64]Observer

	// Key-specific observers
	keyObservers map[string]map[uint64]Observer

	// Next subscription ID
	nextID uint64

	// Whether to notify synchronously or asynchronously
	async bool

	// Buffer for async notifications
	buffer chan Change

	// Done channel for shutdown
	done chan struct{}

	// Wait group for async goroutine
	wg sync.WaitGroup

	// Closed flag for idempotent Close
	closed bool

	onPanic ErrorHandler
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync enables asynchronous notification delivery.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Change, bufferSize)
		}
	}
}

// WithPanicHandler sets the handler for panics raised by observers.
// Without one, a panicking observer is skipped silently.
func WithPanicHandler(h ErrorHandler) Option {
	return func(n *Notifier) {
		n.onPanic = h
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		globalObservers: make(map[uint64]Observer),
		keyObservers:    make(map[string]map[uint64]Observer),
		done:            make(chan struct{}),
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

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.globalObservers[id] = observer

	return &Subscription{id: id, notifier: n}
}

// SubscribeKey registers an observer for changes to one setting.
// Reload events are delivered to key observers as well.
func (n *Notifier) SubscribeKey(key string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	if n.keyObservers[key] == nil {
		n.keyObservers[key] = make(map[uint64]Observer)
	}
	n.keyObservers[key][id] = observer

	return &Subscription{id: id, key: key, notifier: n}
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	count := len(n.globalObservers)
	for _, observers := range n.keyObservers {
		count += len(observers)
	}
	return count
}

// Notify sends a change notification to all relevant observers.
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

	n.deliverChange(change)
}

// NotifySet is a convenience method for set changes.
func (n *Notifier) NotifySet(key, source string) {
	n.Notify(Change{Key: key, Type: ChangeSet, Source: source})
}

// NotifyReset is a convenience method for reset-to-default changes.
func (n *Notifier) NotifyReset(key, source string) {
	n.Notify(Change{Key: key, Type: ChangeReset, Source: source})
}

// NotifySession is a convenience method for session-only changes.
func (n *Notifier) NotifySession(key, source string) {
	n.Notify(Change{Key: key, Type: ChangeSession, Source: source})
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// Close shuts down the notifier. It is safe to call Close multiple times.
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

	delete(n.globalObservers, id)

	for key, observers := range n.keyObservers {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.keyObservers, key)
		}
	}
}

// deliverChange sends a change to all matching observers.
func (n *Notifier) deliverChange(change Change) {
	n.mu.RLock()

	var observers []Observer
	for _, obs := range n.globalObservers {
		observers = append(observers, obs)
	}

	if change.Key != "" {
		for _, obs := range n.keyObservers[change.Key] {
			observers = append(observers, obs)
		}
	} else {
		// Reload event - notify all key observers too
		for _, keyObs := range n.keyObservers {
			for _, obs := range keyObs {
				observers = append(observers, obs)
			}
		}
	}

	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		n.safeCall(obs, change)
	}
}

// safeCall invokes an observer with panic recovery.
func (n *Notifier) safeCall(obs Observer, change Change) {
	defer func() {
		if r := recover(); r != nil && n.onPanic != nil {
			n.onPanic(change, fmt.Errorf("observer panic: %v", r))
		}
	}()
	obs(change)
}

// processAsync handles asynchronous notification delivery.
func (n *Notifier) processAsync() {
	defer n.wg.Done()

	for {
		select {
		case change := <-n.buffer:
			n.deliverChange(change)
		case <-n.done:
			// Drain remaining buffered changes
			for {
				select {
				case change := <-n.buffer:
					n.deliverChange(change)
				default:
					return
				}
			}
		}
	}
}
