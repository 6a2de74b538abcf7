package session

import "sync"

// ActivitySource notifies listeners whenever the user does something.
type ActivitySource interface {
	// OnActivity registers fn and returns a function that unregisters it.
	OnActivity(fn func()) (remove func())
}

// ActivityHub is an ActivitySource fed by explicit Emit calls, one per session.
type ActivityHub struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]func()
}

// NewActivityHub returns an empty hub.
func NewActivityHub() *ActivityHub {
	return &ActivityHub{listeners: make(map[int]func())}
}

// OnActivity implements ActivitySource.
func (h *ActivityHub) OnActivity(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		delete(h.listeners, id)
	}
}

// Emit calls every registered listener. Listeners run outside the hub's lock.
func (h *ActivityHub) Emit() {
	h.mu.RLock()
	fns := make([]func(), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
