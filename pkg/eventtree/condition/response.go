package condition

import "github.com/guldfisk/eventtree/pkg/eventtree"

// Response runs synchronously the moment its event type notifies,
// connecting under the bare event type name alongside the event's other
// post-payload listeners.
type Response struct {
	base
	resolve func(source eventtree.Event) (any, error)
}

// NewResponse constructs a Response on eventType.
func NewResponse(sess *eventtree.Session, eventType string, resolve func(eventtree.Event) (any, error)) *Response {
	r := &Response{resolve: resolve}
	r.base = newBase(sess, eventType, eventType)
	r.base.onLoad = func(values eventtree.Values) (any, error) {
		source, _ := values["source"].(eventtree.Event)
		return r.resolve(source)
	}
	return r
}

// WithCondition restricts this Response to events satisfying predicate.
func (r *Response) WithCondition(predicate func(eventtree.Values) bool) *Response {
	r.setPredicate(predicate)
	return r
}

// Connect registers this Response with the Session's Dispatcher.
func (r *Response) Connect() error { return r.connect(r) }

// Disconnect removes this Response from the Session's Dispatcher.
func (r *Response) Disconnect() error { return r.disconnect(r) }

// PreResponse runs during an event's pre-respond phase, before its
// payload executes. It connects under "_pre_respond_" + trigger.
type PreResponse struct {
	base
	resolve func(source eventtree.Event) (any, error)
}

// NewPreResponse constructs a PreResponse on trigger.
func NewPreResponse(sess *eventtree.Session, trigger string, resolve func(eventtree.Event) (any, error)) *PreResponse {
	r := &PreResponse{resolve: resolve}
	r.base = newBase(sess, trigger, "_pre_respond_"+trigger)
	r.base.onLoad = func(values eventtree.Values) (any, error) {
		source, _ := values["source"].(eventtree.Event)
		return r.resolve(source)
	}
	return r
}

// WithCondition restricts this PreResponse to events satisfying
// predicate.
func (r *PreResponse) WithCondition(predicate func(eventtree.Values) bool) *PreResponse {
	r.setPredicate(predicate)
	return r
}

// Connect registers this PreResponse with the Session's Dispatcher.
func (r *PreResponse) Connect() error { return r.connect(r) }

// Disconnect removes this PreResponse from the Session's Dispatcher.
func (r *PreResponse) Disconnect() error { return r.disconnect(r) }
