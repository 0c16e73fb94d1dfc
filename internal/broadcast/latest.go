// Package broadcast implements a single-slot publish/subscribe primitive: the
// last published value is retained and delivered to every subscriber.
package broadcast

import "sync"

// Latest keeps the most recently published value and fans it out to subscribers.
// Subscribers that fall behind never block the publisher; they only observe the
// newest value once they read again.
type Latest[T any] struct {
	mu     sync.Mutex
	value  T
	set    bool
	nextID int
	subs   map[int]chan T
}

// NewLatest creates a Latest without an initial value.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{subs: make(map[int]chan T)}
}

// NewLatestWith creates a Latest primed with an initial value.
func NewLatestWith[T any](initial T) *Latest[T] {
	l := NewLatest[T]()
	l.value, l.set = initial, true

	return l
}

// Publish replaces the retained value and notifies all subscribers.
func (l *Latest[T]) Publish(value T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.value, l.set = value, true
	for _, ch := range l.subs {
		offer(ch, value)
	}
}

// Get returns the retained value and whether one was ever published.
func (l *Latest[T]) Get() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.value, l.set
}

// Subscribe registers a new subscriber. The returned channel immediately holds
// the retained value if there is one. The cancel func unregisters the subscriber
// and closes the channel; it is safe to call more than once.
func (l *Latest[T]) Subscribe() (<-chan T, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan T, 1)
	if l.set {
		ch <- l.value
	}

	id := l.nextID
	l.nextID++
	l.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.subs, id)
			close(ch)
		})
	}

	return ch, cancel
}

// offer puts value into a one-slot channel, discarding a stale unread value.
// Callers hold the lock, so there is no concurrent sender on ch.
func offer[T any](ch chan T, value T) {
	select {
	case <-ch:
	default:
	}
	ch <- value
}
