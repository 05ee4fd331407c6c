package condition

import "github.com/guldfisk/eventtree/pkg/eventtree"

// Replacement substitutes an alternative event for the one it
// intercepts. It connects under "_try_" + trigger and is offered to
// every resolution of that event type until disconnected or consumed by
// a one-shot variant (NewSingleAttemptReplacement, NewDelayedReplacement).
type Replacement struct {
	base
	replace func(eventtree.Event) (any, error)
}

// NewReplacement constructs a Replacement on trigger (an event type
// name). replace is invoked with the intercepted event when this
// Replacement is chosen; its return value becomes the result of that
// resolution.
func NewReplacement(sess *eventtree.Session, trigger string, replace func(eventtree.Event) (any, error)) *Replacement {
	r := &Replacement{replace: replace}
	r.base = newBase(sess, trigger, "_try_"+trigger)
	r.base.onLoad = func(eventtree.Values) (any, error) { return r, nil }
	return r
}

// WithCondition restricts this Replacement to events satisfying
// predicate; by default every event of the matching type is offered.
func (r *Replacement) WithCondition(predicate func(eventtree.Values) bool) *Replacement {
	r.setPredicate(predicate)
	return r
}

// Connect registers this Replacement with the Session's Dispatcher.
func (r *Replacement) Connect() error { return r.connect(r) }

// Disconnect removes this Replacement from the Session's Dispatcher.
func (r *Replacement) Disconnect() error { return r.disconnect(r) }

// Replace runs the configured replacement logic against e.
func (r *Replacement) Replace(e eventtree.Event) (any, error) { return r.replace(e) }

// NewSingleAttemptReplacement is a Replacement offered at most once: it
// disconnects itself the moment it is offered to a replacement search,
// regardless of whether the chooser ultimately picks it.
func NewSingleAttemptReplacement(sess *eventtree.Session, trigger string, replace func(eventtree.Event) (any, error)) *Replacement {
	r := NewReplacement(sess, trigger, replace)
	r.base.onLoad = func(eventtree.Values) (any, error) {
		_ = r.Disconnect()
		return r, nil
	}
	return r
}

// NewDelayedReplacement is a Replacement that disconnects itself before
// running its replacement logic, so it fires exactly once and does not
// observe the event it spawns as a replacement for itself. The
// disconnect runs as its own DisconnectCondition event, resolved with
// the replacing event's parent as its parent, so the disconnect is
// logged and observable like any other condition lifecycle transition.
func NewDelayedReplacement(sess *eventtree.Session, trigger string, replace func(eventtree.Event) (any, error)) *Replacement {
	r := NewReplacement(sess, trigger, nil)
	r.replace = func(e eventtree.Event) (any, error) {
		if err := sess.DisconnectCondition(r, eventtree.WithParent(e.Parent())); err != nil {
			return nil, err
		}
		return replace(e)
	}
	return r
}
