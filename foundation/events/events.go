// Package events allows for the registering and receiving of chain events.
// A subscriber can narrow what it receives to a set of message prefixes.
package events

import (
	"fmt"
	"strings"
	"sync"
)

// messageBuffer is the number of messages held for a subscriber. A message
// is dropped if the receiver is not ready, websocket sends can be slow.
const messageBuffer = 100

// subscriber represents a registered receiver of events.
type subscriber struct {
	ch       chan string
	prefixes []string
}

// wants reports whether the message matches one of the subscriber prefixes.
// No prefixes means everything is wanted.
func (sub subscriber) wants(s string) bool {
	if len(sub.prefixes) == 0 {
		return true
	}

	for _, prefix := range sub.prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

// =============================================================================

// Events maintains a mapping of unique id and channels so goroutines
// can register and receive events.
type Events struct {
	m  map[string]subscriber
	mu sync.RWMutex
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		m: make(map[string]subscriber),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.m {
		delete(evt.m, id)
		close(sub.ch)
	}
}

// Acquire takes a unique id and returns a channel that can be used to
// receive events starting with any of the prefixes. Acquiring an id that
// is already registered returns the existing channel.
func (evt *Events) Acquire(id string, prefixes ...string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if sub, exists := evt.m[id]; exists {
		return sub.ch
	}

	sub := subscriber{
		ch:       make(chan string, messageBuffer),
		prefixes: prefixes,
	}
	evt.m[id] = sub

	return sub.ch
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(sub.ch)

	return nil
}

// Send signals a message to every interested channel. Send will not block
// waiting for a receiver on any given channel.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, sub := range evt.m {
		if !sub.wants(s) {
			continue
		}

		select {
		case sub.ch <- s:
		default:
		}
	}
}

// Subscribers returns the number of registered receivers.
func (evt *Events) Subscribers() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.m)
}
