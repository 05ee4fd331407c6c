// Package condition implements the full condition taxonomy: persistent
// observers that bind to the Session's Dispatcher under a signal derived
// from their trigger name and modify, react to, or defer events in
// flight. It imports eventtree (Session, Values, Event); eventtree
// itself never imports this package, so concrete conditions are made
// visible to the resolution pipeline only through eventtree's minimal
// Replacement and Condition interfaces.
package condition

import (
	"github.com/guldfisk/eventtree/pkg/eventtree"
	"github.com/guldfisk/eventtree/pkg/eventtree/dispatch"
)

// base implements the connect/disconnect/time-stamp bookkeeping shared
// by every condition variant below. The Python source lets callers
// override condition/successful_load/resolve by keyword at construction;
// here those become plain function fields (predicate, onLoad) set by
// each variant's constructor, per the "method-override-by-kwarg"
// re-expression in the design notes.
type base struct {
	session   *eventtree.Session
	source    any
	trigger   string
	signal    string
	timeStamp int

	predicate func(eventtree.Values) bool
	onLoad    func(eventtree.Values) (any, error)

	onConnect    func()
	onDisconnect func()
}

func newBase(sess *eventtree.Session, trigger, signal string) base {
	return base{
		session:   sess,
		trigger:   trigger,
		signal:    signal,
		timeStamp: -1,
	}
}

// TimeStamp returns the ordinal this condition was connected at, or -1
// if it is not currently connected. It is the sole basis for default
// replacement tie-breaking and attribute-modifier composition order.
func (b *base) TimeStamp() int { return b.timeStamp }

// Trigger returns the trigger name this condition was constructed with,
// before any signal-prefix derivation.
func (b *base) Trigger() string { return b.trigger }

// Connected reports whether the condition is currently registered with
// the Dispatcher.
func (b *base) Connected() bool { return b.timeStamp >= 0 }

func (b *base) setPredicate(p func(eventtree.Values) bool) { b.predicate = p }

// connect registers owner's load handler under b.signal and assigns its
// connect-time timestamp. owner is the outer concrete condition value
// (e.g. *Replacement), used as the Dispatcher registration key.
func (b *base) connect(owner any) error {
	if b.Connected() {
		return eventtree.ErrConditionAlreadyConnected
	}
	b.timeStamp = b.session.GetTimeStamp()
	b.session.Dispatcher().Connect(b.signal, owner, b.load)
	if b.onConnect != nil {
		b.onConnect()
	}
	return nil
}

// disconnect removes owner's load handler and resets the timestamp.
func (b *base) disconnect(owner any) error {
	if !b.Connected() {
		return eventtree.ErrConditionNotConnected
	}
	b.session.Dispatcher().Disconnect(b.signal, owner)
	if b.onDisconnect != nil {
		b.onDisconnect()
	}
	b.timeStamp = -1
	return nil
}

// load is the Dispatcher handler every variant registers: it evaluates
// the predicate (default: always true) and, if satisfied, runs onLoad.
func (b *base) load(values dispatch.Values) (any, error) {
	ev := eventtree.Values(values)
	if b.predicate != nil && !b.predicate(ev) {
		return nil, nil
	}
	return b.onLoad(ev)
}

// disconnecter is the minimal contract continuousHook needs to tear a
// condition down when its termination signal fires.
type disconnecter interface {
	Disconnect() error
}

// continuousHook implements the Continuous mix-in: it wraps b's connect
// and disconnect so that, in addition to the condition's own signal, a
// handler is registered under terminateSignal that disconnects owner
// entirely once terminateCondition (nil means always true, matching the
// Python default) is satisfied.
func continuousHook(b *base, owner disconnecter, terminateSignal string, terminateCondition func(eventtree.Values) bool) {
	prevConnect := b.onConnect
	prevDisconnect := b.onDisconnect

	b.onConnect = func() {
		if prevConnect != nil {
			prevConnect()
		}
		b.session.Dispatcher().Connect(terminateSignal, b, func(values dispatch.Values) (any, error) {
			ev := eventtree.Values(values)
			if terminateCondition == nil || terminateCondition(ev) {
				return nil, owner.Disconnect()
			}
			return nil, nil
		})
	}
	b.onDisconnect = func() {
		b.session.Dispatcher().Disconnect(terminateSignal, b)
		if prevDisconnect != nil {
			prevDisconnect()
		}
	}
}
