package eventaggregator

import "sync"

// listeners holds all subscriptions for one event type
type listeners[T any] struct {
	mu    sync.RWMutex
	items []Listener[T]
}

func (l *listeners[T]) add(listener Listener[T]) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, listener)
}

// snapshot returns the listeners visible at the time of the call.
// Listeners are invoked outside the lock so they may subscribe or
// raise on the same aggregator.
func (l *listeners[T]) snapshot() []Listener[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Listener[T], len(l.items))
	copy(out, l.items)

	return out
}

func (l *listeners[T]) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.items)
}

// listenersFor returns the collection for T, creating it on first use.
// Concurrent first calls for the same T all observe the same collection.
func listenersFor[T any](a *Aggregator) *listeners[T] {
	key := typeOf[T]()

	if v, ok := a.registry.Load(key); ok {
		return v.(*listeners[T])
	}

	v, _ := a.registry.LoadOrStore(key, &listeners[T]{})

	return v.(*listeners[T])
}

func lookup[T any](a *Aggregator) (*listeners[T], bool) {
	v, ok := a.registry.Load(typeOf[T]())
	if !ok {
		return nil, false
	}

	return v.(*listeners[T]), true
}
