// Package notifier broadcasts dashboard update events to SSE listeners.
package notifier

import "sync"

// Event says what changed.
type Event string

// Events.
const (
	// EventStatus asks listeners to re-render the status board.
	EventStatus Event = "status"
	// EventReload signals that the underlying data was replaced.
	EventReload Event = "reload"
)

// listenerBuffer is how many undelivered events a listener may hold.
const listenerBuffer = 4

// Notifier fans events out to every subscribed listener.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, listenerBuffer)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Subscribers returns the number of listeners.
func (n *Notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends ev to all listeners. A listener whose buffer is full misses it.
func (n *Notifier) Broadcast(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}
