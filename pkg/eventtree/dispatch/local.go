package dispatch

import (
	"sync"

	"github.com/google/uuid"
)

// entry pairs a registered handler with the owner key used to
// deduplicate and remove it.
type entry struct {
	id      string
	owner   any
	handler Handler
}

// LocalDispatcher is the in-process Dispatcher implementation. It is not
// safe for concurrent use from multiple goroutines; the engine's
// resolution model is single-threaded and synchronous by design.
type LocalDispatcher struct {
	mu       sync.Mutex
	handlers map[string][]entry
}

var _ Dispatcher = (*LocalDispatcher)(nil)

// NewLocalDispatcher returns an empty, ready-to-use LocalDispatcher.
func NewLocalDispatcher() *LocalDispatcher {
	return &LocalDispatcher{handlers: make(map[string][]entry)}
}

// Connect registers handler under signal, keyed by owner. Re-registering
// the same owner under the same signal is a no-op.
func (d *LocalDispatcher) Connect(signal string, owner any, handler Handler) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.handlers[signal] {
		if e.owner == owner {
			return Subscription{id: e.id, signal: signal, owner: owner}
		}
	}
	id := uuid.New().String()
	d.handlers[signal] = append(d.handlers[signal], entry{id: id, owner: owner, handler: handler})
	return Subscription{id: id, signal: signal, owner: owner}
}

// Disconnect removes the handler registered under signal for owner, if
// any.
func (d *LocalDispatcher) Disconnect(signal string, owner any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.handlers[signal]
	for i, e := range entries {
		if e.owner == owner {
			d.handlers[signal] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Send invokes every handler registered under signal, in connection
// order, against a snapshot taken before the first invocation —
// handlers that connect or disconnect mid-send do not affect this call.
// A handler error stops the fan-out; results collected up to that point
// are still returned alongside the raw handler error. Callers that need
// to know which signal failed already have it: they are the ones who
// passed it in.
func (d *LocalDispatcher) Send(signal string, values Values) ([]any, error) {
	d.mu.Lock()
	snapshot := make([]entry, len(d.handlers[signal]))
	copy(snapshot, d.handlers[signal])
	d.mu.Unlock()

	results := make([]any, 0, len(snapshot))
	for _, e := range snapshot {
		result, err := e.handler(values)
		if err != nil {
			return results, err
		}
		if result != nil {
			results = append(results, result)
		}
	}
	return results, nil
}
