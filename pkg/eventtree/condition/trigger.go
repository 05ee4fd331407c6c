package condition

import "github.com/guldfisk/eventtree/pkg/eventtree"

// Trigger queues a deferred action when its event type fires: it
// connects under the bare event type name, and on load resolves the
// built-in Triggered event, which enqueues this Trigger against the
// firing circumstance for later batch resolution via
// Session.ResolveTriggers. resolve holds the deferred action itself,
// satisfying eventtree.TriggerHandle.
type Trigger struct {
	base
	resolve func(circumstance eventtree.Values) (any, error)
}

// NewTrigger constructs a Trigger on eventType (the event type name it
// watches). resolve is invoked when the queued trigger is drained, with
// the values the triggering event fired under.
func NewTrigger(sess *eventtree.Session, eventType string, resolve func(eventtree.Values) (any, error)) *Trigger {
	t := &Trigger{resolve: resolve}
	t.base = newBase(sess, eventType, eventType)
	t.base.onLoad = func(values eventtree.Values) (any, error) {
		return eventtree.Triggered(sess, t, values)
	}
	return t
}

// WithCondition restricts this Trigger to events satisfying predicate.
func (t *Trigger) WithCondition(predicate func(eventtree.Values) bool) *Trigger {
	t.setPredicate(predicate)
	return t
}

// Connect registers this Trigger with the Session's Dispatcher.
func (t *Trigger) Connect() error { return t.connect(t) }

// Disconnect removes this Trigger from the Session's Dispatcher.
func (t *Trigger) Disconnect() error { return t.disconnect(t) }

// Resolve runs the deferred action against circumstance. Called by
// Session.ResolveTriggers when this Trigger's queued pack is drained.
func (t *Trigger) Resolve(circumstance eventtree.Values) (any, error) {
	return t.resolve(circumstance)
}

// NewDelayedTrigger is a Trigger that disconnects itself the first time
// it fires, so its deferred action is queued at most once (one-shot
// latent).
func NewDelayedTrigger(sess *eventtree.Session, eventType string, resolve func(eventtree.Values) (any, error)) *Trigger {
	t := NewTrigger(sess, eventType, resolve)
	t.base.onLoad = func(values eventtree.Values) (any, error) {
		result, err := eventtree.Triggered(sess, t, values)
		if err != nil {
			return nil, err
		}
		_ = t.Disconnect()
		return result, nil
	}
	return t
}
