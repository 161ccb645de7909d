package client

import "sync"

// Handler receives an event with its params expanded positionally. A
// pushed notification with an empty params sequence invokes the handler
// with no arguments. Lifecycle events pass their payload the same way:
// EventOpen has no arguments, EventError passes the error, EventClose
// passes the status code and reason.
type Handler func(args ...interface{})

type listener struct {
	fn   Handler
	once bool
}

// emitter fans events out to locally registered listeners by name.
// Listeners are invoked synchronously in registration order; an event
// with no listeners is dropped without error.
type emitter struct {
	mu        sync.Mutex
	listeners map[string][]*listener
}

func newEmitter() *emitter {
	return &emitter{
		listeners: make(map[string][]*listener),
	}
}

func (e *emitter) on(name string, fn Handler) {
	e.mu.Lock()
	e.listeners[name] = append(e.listeners[name], &listener{fn: fn})
	e.mu.Unlock()
}

func (e *emitter) once(name string, fn Handler) {
	e.mu.Lock()
	e.listeners[name] = append(e.listeners[name], &listener{fn: fn, once: true})
	e.mu.Unlock()
}

func (e *emitter) off(name string) {
	e.mu.Lock()
	delete(e.listeners, name)
	e.mu.Unlock()
}

func (e *emitter) emit(name string, args ...interface{}) {
	e.mu.Lock()
	current := e.listeners[name]
	if len(current) == 0 {
		e.mu.Unlock()
		return
	}
	snapshot := make([]*listener, len(current))
	copy(snapshot, current)

	remaining := current[:0:0]
	for _, l := range current {
		if !l.once {
			remaining = append(remaining, l)
		}
	}
	if len(remaining) == 0 {
		delete(e.listeners, name)
	} else {
		e.listeners[name] = remaining
	}
	e.mu.Unlock()

	// invoke outside the lock so handlers may register listeners
	for _, l := range snapshot {
		l.fn(args...)
	}
}
