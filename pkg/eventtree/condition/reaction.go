package condition

import "github.com/guldfisk/eventtree/pkg/eventtree"

// Reaction fires during an event's pre-reaction phase, after the event
// has logged but before its payload runs. It connects under "_react_" +
// trigger.
type Reaction struct {
	base
}

// NewReaction constructs a Reaction on trigger.
func NewReaction(sess *eventtree.Session, trigger string) *Reaction {
	r := &Reaction{}
	r.base = newBase(sess, trigger, "_react_"+trigger)
	r.base.onLoad = func(eventtree.Values) (any, error) { return r, nil }
	return r
}

// WithCondition restricts this Reaction to events satisfying predicate.
func (r *Reaction) WithCondition(predicate func(eventtree.Values) bool) *Reaction {
	r.setPredicate(predicate)
	return r
}

// Connect registers this Reaction with the Session's Dispatcher.
func (r *Reaction) Connect() error { return r.connect(r) }

// Disconnect removes this Reaction from the Session's Dispatcher.
func (r *Reaction) Disconnect() error { return r.disconnect(r) }

// PostReaction fires during an event's post-reaction phase, after its
// payload has run. It connects under "_post_react_" + trigger.
type PostReaction struct {
	base
}

// NewPostReaction constructs a PostReaction on trigger.
func NewPostReaction(sess *eventtree.Session, trigger string) *PostReaction {
	r := &PostReaction{}
	r.base = newBase(sess, trigger, "_post_react_"+trigger)
	r.base.onLoad = func(eventtree.Values) (any, error) { return r, nil }
	return r
}

// WithCondition restricts this PostReaction to events satisfying
// predicate.
func (r *PostReaction) WithCondition(predicate func(eventtree.Values) bool) *PostReaction {
	r.setPredicate(predicate)
	return r
}

// Connect registers this PostReaction with the Session's Dispatcher.
func (r *PostReaction) Connect() error { return r.connect(r) }

// Disconnect removes this PostReaction from the Session's Dispatcher.
func (r *PostReaction) Disconnect() error { return r.disconnect(r) }
