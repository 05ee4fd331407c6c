package condition

import (
	"github.com/guldfisk/eventtree/pkg/eventtree"
	"github.com/guldfisk/eventtree/pkg/eventtree/expr"
)

// StaticAttributeModification folds into an attribute's read chain
// (see the attribute package): it connects under "_aa_" + attrName and
// offers itself to every read until disconnected. It is the one
// built-in condition variant the Python source mixes directly with
// Continuous, so its termination trigger is wired in at construction
// rather than bolted on afterward.
type StaticAttributeModification struct {
	base
	resolve func(owner any, value any) (any, error)
}

// StaticAttributeOption configures a StaticAttributeModification at
// construction.
type StaticAttributeOption func(*StaticAttributeModification)

// WithTerminate adds the Continuous mix-in: once terminateSignal fires
// and terminateCondition (nil means always true) is satisfied, the
// modification disconnects itself. Without this option the modification
// persists until explicitly disconnected, matching the Python source's
// default empty terminate_trigger.
func WithTerminate(terminateSignal string, terminateCondition func(eventtree.Values) bool) StaticAttributeOption {
	return func(m *StaticAttributeModification) {
		continuousHook(&m.base, m, terminateSignal, terminateCondition)
	}
}

// WithTerminateExpr is WithTerminate with the predicate expressed as a
// boolean expression string, evaluated against the firing values by the
// expr package — e.g. "count >= 3" instead of a Go closure.
func WithTerminateExpr(terminateSignal, expression string) StaticAttributeOption {
	return WithTerminate(terminateSignal, func(values eventtree.Values) bool {
		ok, err := expr.Eval(expression, values)
		return err == nil && ok
	})
}

// NewStaticAttributeModification constructs a modification on attrName
// (the protected attribute's name). resolve is folded into the
// attribute's running value at read time, in ascending TimeStamp order
// among every currently connected modification.
func NewStaticAttributeModification(sess *eventtree.Session, attrName string, resolve func(owner any, value any) (any, error), opts ...StaticAttributeOption) *StaticAttributeModification {
	m := &StaticAttributeModification{resolve: resolve}
	m.base = newBase(sess, attrName, "_aa_"+attrName)
	m.base.onLoad = func(eventtree.Values) (any, error) { return m, nil }
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithCondition restricts this modification to reads satisfying
// predicate.
func (m *StaticAttributeModification) WithCondition(predicate func(eventtree.Values) bool) *StaticAttributeModification {
	m.setPredicate(predicate)
	return m
}

// Connect registers this modification with the Session's Dispatcher.
func (m *StaticAttributeModification) Connect() error { return m.connect(m) }

// Disconnect removes this modification from the Session's Dispatcher.
func (m *StaticAttributeModification) Disconnect() error { return m.disconnect(m) }

// Resolve folds this modification into value, read for owner.
func (m *StaticAttributeModification) Resolve(owner any, value any) (any, error) {
	return m.resolve(owner, value)
}
