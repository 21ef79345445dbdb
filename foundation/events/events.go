// Package events supports fanning chain activity out to subscribers,
// one channel per connected consumer.
package events

import (
	"fmt"
	"sync"
)

// sendBuffer is how many events a slow subscriber can fall behind
// before messages start dropping for them.
const sendBuffer = 100

// Events maintains the set of subscriber channels keyed by a unique id.
type Events struct {
	mu          sync.RWMutex
	subscribers map[string]chan string
}

// New constructs an Events value for use.
func New() *Events {
	return &Events{
		subscribers: make(map[string]chan string),
	}
}

// Acquire registers the unique id and returns the channel its events
// arrive on. Acquiring an id twice returns the same channel.
func (evts *Events) Acquire(uniqueID string) chan string {
	evts.mu.Lock()
	defer evts.mu.Unlock()

	if ch, exists := evts.subscribers[uniqueID]; exists {
		return ch
	}

	ch := make(chan string, sendBuffer)
	evts.subscribers[uniqueID] = ch

	return ch
}

// Release closes the channel for the unique id and forgets it.
func (evts *Events) Release(uniqueID string) error {
	evts.mu.Lock()
	defer evts.mu.Unlock()

	ch, exists := evts.subscribers[uniqueID]
	if !exists {
		return fmt.Errorf("id %q is not registered", uniqueID)
	}

	delete(evts.subscribers, uniqueID)
	close(ch)

	return nil
}

// Send delivers the message to every subscriber. Send never blocks;
// a subscriber with a full buffer misses the message.
func (evts *Events) Send(s string) {
	evts.mu.RLock()
	defer evts.mu.RUnlock()

	for _, ch := range evts.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}

// Shutdown closes and removes every subscriber channel.
func (evts *Events) Shutdown() {
	evts.mu.Lock()
	defer evts.mu.Unlock()

	for id, ch := range evts.subscribers {
		delete(evts.subscribers, id)
		close(ch)
	}
}
