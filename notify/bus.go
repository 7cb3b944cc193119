package notify

import (
	"fmt"
	"io"
	"sync"
)

// Listener receives events published on a Bus.
type Listener func(event Event)

type subscription struct {
	id       uint64
	listener Listener
}

// Bus delivers events synchronously to its subscribers.
// The zero value is ready to use.
type Bus struct {
	// ErrorWriter receives a line for every listener that panics.
	// Nil discards them.
	ErrorWriter io.Writer

	mu            sync.RWMutex
	nextID        uint64
	subscriptions []subscription
}

func NewBus(errorWriter io.Writer) *Bus {
	return &Bus{ErrorWriter: errorWriter}
}

// Subscribe registers listener and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(listener Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subscriptions = append(b.subscriptions, subscription{id: id, listener: listener})

	return func() { b.unsubscribe(id) }
}

func (b *Bus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subscriptions {
		if s.id == id {
			subs := make([]subscription, 0, len(b.subscriptions)-1)
			subs = append(subs, b.subscriptions[:i]...)
			b.subscriptions = append(subs, b.subscriptions[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}

// Notify hands event to every listener registered at the time of the call,
// in subscription order, on the calling goroutine. A listener that panics
// does not stop delivery to the others. Notifying a nil Bus does nothing.
func (b *Bus) Notify(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := b.subscriptions
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(s.listener, event)
	}
}

// Publish builds an Event from fields and notifies it.
func (b *Bus) Publish(fields Fields) {
	b.Notify(NewEvent(fields))
}

func (b *Bus) deliver(listener Listener, event Event) {
	defer func() {
		if r := recover(); r != nil && b.ErrorWriter != nil {
			fmt.Fprintf(b.ErrorWriter, "%s: listener panicked: %v\n", Channel, r)
		}
	}()
	listener(event)
}
