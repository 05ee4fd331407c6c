// Package dispatch implements the signal-keyed broadcast the event-tree
// engine uses to fan out replacement searches, reactions, and triggers.
// It is the "Dispatcher" contract the engine is specified against,
// deliberately kept free of any dependency on the eventtree package so it
// can be reused (or swapped) independently of the resolution pipeline.
package dispatch

// Values is the keyword-argument bag passed to a Handler on Send, and the
// bag a Handler may return to offer a result back to the caller.
type Values map[string]any

// Handler is a function connected under a signal. It receives the values
// a Send call was made with and may return a non-nil result to be
// collected by that Send — e.g. a Replacement offering itself, or a
// Reaction indicating it fired.
type Handler func(values Values) (any, error)

// Subscription identifies one Connect call so it can be individually
// Disconnected without affecting other handlers on the same signal. The
// id is not used for lookup — Disconnect keys on (signal, owner) — it
// exists so logs and traces can name a specific registration.
type Subscription struct {
	id     string
	signal string
	owner  any
}

// ID returns the Subscription's unique identifier, assigned at Connect
// time.
func (s Subscription) ID() string { return s.id }

// Dispatcher is a keyed many-listener broadcast: handlers register under
// a string signal, and a Send delivers to every live handler registered
// under that signal, in registration order.
type Dispatcher interface {
	// Connect registers handler under signal, keyed by owner. Calling
	// Connect again with the same owner and signal is a no-op — it does
	// not register a second handler and does not change the existing
	// one's position in the order.
	Connect(signal string, owner any, handler Handler) Subscription

	// Disconnect removes the handler registered under signal for owner.
	// It is silent if none is registered.
	Disconnect(signal string, owner any)

	// Send invokes every handler registered under signal, in the order
	// they were connected, collecting non-nil results. Handlers
	// connected or disconnected during the call do not affect it: Send
	// operates on a snapshot of the handler list taken before the first
	// invocation. A handler error stops the fan-out; results already
	// collected are still returned alongside the error.
	Send(signal string, values Values) ([]any, error)
}
