package client

import (
	"encoding/json"
	"sync"
)

type callResult struct {
	result json.RawMessage
	err    error
}

// registry assigns correlation ids to outbound calls and routes inbound
// responses back to the caller that issued each id. Ids are strictly
// increasing positive integers and are never reused, even across
// reconnects.
type registry struct {
	mu      sync.Mutex
	lastID  uint64
	pending map[uint64]chan callResult
}

func newRegistry() *registry {
	return &registry{
		pending: make(map[uint64]chan callResult),
	}
}

// next allocates the id for the next outbound call.
func (r *registry) next() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	return r.lastID
}

// add registers a pending entry for the given id. The channel is
// buffered so resolution never blocks the read loop.
func (r *registry) add(id uint64) chan callResult {
	ch := make(chan callResult, 1)
	r.mu.Lock()
	r.pending[id] = ch
	r.mu.Unlock()
	return ch
}

// remove discards a pending entry, e.g. after a failed send or an
// abandoned wait. Removing an unknown id is a no-op.
func (r *registry) remove(id uint64) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}

// resolve completes the pending call for id with a result. It reports
// whether a matching entry existed; duplicate or spurious responses
// return false and have no effect.
func (r *registry) resolve(id uint64, result json.RawMessage) bool {
	return r.complete(id, callResult{result: result})
}

// reject completes the pending call for id with an error, under the
// same at-most-once semantics as resolve.
func (r *registry) reject(id uint64, err error) bool {
	return r.complete(id, callResult{err: err})
}

func (r *registry) complete(id uint64, res callResult) bool {
	r.mu.Lock()
	ch, ok := r.pending[id]
	delete(r.pending, id)
	r.mu.Unlock()

	if !ok {
		return false
	}
	ch <- res
	return true
}
