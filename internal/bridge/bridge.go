// Package bridge carries menu selections and startup arguments from the host
// to the UI layer.
//
// Menu events travel over a bounded channel. Sending never blocks the caller:
// when the UI layer is not listening or has fallen behind, the event is
// dropped. Delivery is at most once.
package bridge

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/justyntemme/mark/internal/debug"
	"github.com/justyntemme/mark/internal/menu"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 32

var (
	ErrAlreadySubscribed = errors.New("bridge: already subscribed")
	ErrNoSubscriber      = errors.New("bridge: no subscriber")
	ErrQueueFull         = errors.New("bridge: event queue full")
	ErrClosed            = errors.New("bridge: closed")
)

// Event is a menu selection. It carries only the activated item's identifier.
type Event struct {
	ID string
}

// Bridge forwards menu activations to a single subscriber.
type Bridge struct {
	mu         sync.RWMutex
	events     chan Event
	subscribed bool
	closed     bool

	forwarded atomic.Uint64
	dropped   atomic.Uint64
}

// New creates a bridge whose queue holds up to capacity undelivered events.
func New(capacity int) *Bridge {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bridge{events: make(chan Event, capacity)}
}

// Subscribe returns the event stream. It may be called once; the stream is
// closed by Close.
func (b *Bridge) Subscribe() (<-chan Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	if b.subscribed {
		return nil, ErrAlreadySubscribed
	}
	b.subscribed = true
	return b.events, nil
}

// Activate handles a selected menu node. Items are forwarded; every other
// node kind belongs to the host platform and produces no event. Forwarding
// failures are logged and otherwise ignored. It reports whether an event was
// queued.
func (b *Bridge) Activate(n menu.Node) bool {
	it, ok := n.(*menu.Item)
	if !ok {
		debug.Log(debug.EVENT, "activation of %T is platform-owned, nothing forwarded", n)
		return false
	}
	if !it.Enabled {
		debug.Log(debug.EVENT, "activation of disabled item %q ignored", it.ID)
		return false
	}
	if err := b.Forward(it.ID); err != nil {
		debug.Log(debug.EVENT, "forward %q: %v", it.ID, err)
		return false
	}
	return true
}

// Forward queues an event for the subscriber without blocking.
func (b *Bridge) Forward(id string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	switch {
	case b.closed:
		b.dropped.Add(1)
		return ErrClosed
	case !b.subscribed:
		b.dropped.Add(1)
		return ErrNoSubscriber
	}

	select {
	case b.events <- Event{ID: id}:
		b.forwarded.Add(1)
		return nil
	default:
		b.dropped.Add(1)
		return ErrQueueFull
	}
}

// Close stops delivery and closes the subscriber's stream. Safe to call
// more than once.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	close(b.events)
}

// Stats returns the number of forwarded and dropped events.
func (b *Bridge) Stats() (forwarded, dropped uint64) {
	return b.forwarded.Load(), b.dropped.Load()
}
