package eventtree

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/guldfisk/eventtree/pkg/eventtree/dispatch"
	"github.com/guldfisk/eventtree/pkg/eventtree/observability"
)

// Values is the keyword-argument bag carried by an Event: the
// domain-specific arguments it was constructed with. Accessor methods on
// concrete event types read typed fields out of it, e.g.
//
//	func (e *DealDamage) Amount() int { return e.Values()["amount"].(int) }
type Values map[string]any

// merge returns a new Values that is the shallow union of base and
// overrides, with overrides winning on key collision. Neither argument
// is mutated.
func (base Values) merge(overrides Values) Values {
	result := make(Values, len(base)+len(overrides))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range overrides {
		result[k] = v
	}
	return result
}

// clone returns a shallow copy of v.
func (v Values) clone() Values {
	return v.merge(nil)
}

// Definition is implemented by every concrete event type. Name must
// return a stable type tag — it is the root of every derived signal
// name (`"_try_" + Name()`, `"_react_" + Name()`, and so on), so it must
// be unique across the event types resolved in a Session and must not
// collide with the reserved prefixes `_try_`, `_react_`, `_post_react_`,
// `_pre_respond_`, `_aa_`.
type Definition interface {
	// Name returns the event's type name.
	Name() string

	// Payload performs the event's effect. It is the only method every
	// event type must implement; Setup and Check are optional hooks
	// already satisfied as no-ops by the embedded Base.
	Payload() (any, error)
}

// Setupper is implemented by event types with a non-trivial Setup hook,
// run before the replacement search. Returning a non-nil error aborts
// resolution: the event is never logged and nothing is notified.
type Setupper interface {
	Setup() error
}

// Checker is implemented by event types with a non-trivial Check hook,
// run after a replacement search finds no winner and before the event is
// logged. Returning a non-nil error aborts resolution: the event is
// never logged and nothing is notified.
type Checker interface {
	Check() error
}

// Event is the public interface every event exposes, regardless of its
// concrete Definition. Spawn forms operate entirely through this
// interface so they can live as free functions outside the package that
// defines a specific event type.
type Event interface {
	Definition

	// Session returns the owning Session.
	Session() *Session

	// Source returns the opaque domain handle the event was resolved
	// with, or nil.
	Source() any

	// Parent returns the event this one was spawned from, or nil for a
	// root event.
	Parent() Event

	// Children returns the events spawned from this one, in spawn
	// order.
	Children() []Event

	// Values returns the event's keyword-argument bag.
	Values() Values

	// ReplacedBy returns the set of Replacements that have already fired
	// on this event's lineage.
	ReplacedBy() ReplacementSet

	// TimeStamp returns the event's ordinal in the session's event log,
	// or -1 if the event was never logged (aborted, or replaced before
	// logging).
	TimeStamp() int
}

// Replacement is the minimal contract the root package needs from a
// replacement condition. The full Replacement type lives in the
// condition subpackage and satisfies this interface structurally, so
// this package never needs to import condition (which imports this
// one).
type Replacement interface {
	// TimeStamp is the ordinal the replacement was connected at; it is
	// the sole basis for default tie-breaking among simultaneous
	// replacement offers.
	TimeStamp() int

	// Replace substitutes an alternative resolution for e and returns
	// the replacement's result.
	Replace(e Event) (any, error)
}

// ReplacementSet tracks which Replacement identities have already fired
// on an event's lineage.
type ReplacementSet map[Replacement]struct{}

// newReplacementSet returns a fresh, empty ReplacementSet.
func newReplacementSet() ReplacementSet {
	return make(ReplacementSet)
}

// clone returns a shallow copy of s.
func (s ReplacementSet) clone() ReplacementSet {
	out := make(ReplacementSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}

// has reports whether r has already fired on this lineage.
func (s ReplacementSet) has(r Replacement) bool {
	_, ok := s[r]
	return ok
}

// add records r as having fired on this lineage.
func (s ReplacementSet) add(r Replacement) {
	s[r] = struct{}{}
}

// coreBinder is satisfied only by Base, via its unexported bindCore
// method. Go promotes unexported methods through embedding even across
// package boundaries, so any struct in any package that embeds Base
// automatically satisfies coreBinder — this is how the engine recovers
// the concrete event (for its Payload/Setup/Check overrides) through the
// public Event/Definition interfaces alone.
type coreBinder interface {
	bindCore(self Definition)
}

// baseHolder is satisfied only by Base, via its unexported baseOf
// method, using the same promoted-unexported-method trick as coreBinder.
// It lets resolve() reach Base's private fields (time stamp assignment,
// replaced-by mutation) from a bare Event value.
type baseHolder interface {
	baseOf() *Base
}

// Base is embedded by every concrete event type. It supplies the Event
// interface's bookkeeping methods and default no-op Setup/Check hooks.
// A concrete event type must embed Base as a field of type Base (not
// *Base) for the spawn forms' reflection-based construction to find it.
type Base struct {
	session    *Session
	source     any
	parent     Event
	children   []Event
	values     Values
	replacedBy ReplacementSet
	timeStamp  int

	self Definition
}

var (
	_ coreBinder = (*Base)(nil)
	_ baseHolder = (*Base)(nil)
	baseType     = reflect.TypeOf(Base{})
)

// bindCore records the concrete event (the struct embedding this Base)
// so resolve() can call its Payload/Setup/Check overrides.
func (b *Base) bindCore(self Definition) { b.self = self }

// baseOf returns b itself, completing the baseHolder contract.
func (b *Base) baseOf() *Base { return b }

// Session returns the owning Session.
func (b *Base) Session() *Session { return b.session }

// Source returns the opaque domain handle the event was resolved with.
func (b *Base) Source() any { return b.source }

// Parent returns the event this one was spawned from, or nil.
func (b *Base) Parent() Event { return b.parent }

// Children returns the events spawned from this one, in spawn order.
func (b *Base) Children() []Event { return b.children }

// Values returns the event's keyword-argument bag.
func (b *Base) Values() Values { return b.values }

// ReplacedBy returns the set of Replacements that have already fired on
// this event's lineage.
func (b *Base) ReplacedBy() ReplacementSet { return b.replacedBy }

// TimeStamp returns the event's ordinal in the session's event log, or
// -1 if it was never logged.
func (b *Base) TimeStamp() int { return b.timeStamp }

// Setup is the default no-op Setup hook. Concrete event types override
// it by defining their own Setup() error method, which shadows this one
// via Go's normal method-promotion rules.
func (b *Base) Setup() error { return nil }

// Check is the default no-op Check hook. Concrete event types override
// it the same way as Setup.
func (b *Base) Check() error { return nil }

// addChild appends child to b's children. Parent wiring is unconditional
// and happens before Setup, per the construction contract.
func (b *Base) addChild(child Event) { b.children = append(b.children, child) }

// setTimeStamp fixes an event's permanent ordinal at log time.
func (b *Base) setTimeStamp(ts int) { b.timeStamp = ts }

// childParams bundles the construction arguments for a spawned event.
type childParams struct {
	session    *Session
	source     any
	parent     Event
	replacedBy ReplacementSet
	values     Values
}

// construct allocates a new T, wires up its embedded Base from params,
// binds it for polymorphic dispatch, and links it into its parent's
// children. It panics if T does not embed eventtree.Base by value —
// that is a programming error in the domain event type, not a runtime
// condition callers need to recover from.
func construct[T Definition](params childParams) T {
	zero := *new(T)
	instance := reflect.New(reflect.TypeOf(zero).Elem()).Interface().(T)

	structValue := reflect.ValueOf(instance).Elem()
	var baseField reflect.Value
	for i := 0; i < structValue.NumField(); i++ {
		if structValue.Field(i).Type() == baseType {
			baseField = structValue.Field(i)
			break
		}
	}
	if !baseField.IsValid() {
		panic(fmt.Sprintf("eventtree: %T does not embed eventtree.Base", instance))
	}

	replacedBy := params.replacedBy
	if replacedBy == nil {
		replacedBy = newReplacementSet()
	}
	values := params.values
	if values == nil {
		values = Values{}
	}

	b := Base{
		session:    params.session,
		source:     params.source,
		parent:     params.parent,
		values:     values,
		replacedBy: replacedBy,
		timeStamp:  -1,
	}
	baseField.Set(reflect.ValueOf(b))

	binder := any(instance).(coreBinder)
	binder.bindCore(instance)

	if params.parent != nil {
		params.parent.(interface{ addChild(Event) }).addChild(any(instance).(Event))
	}

	return instance
}

// sessSend wraps a Dispatcher.Send with this Session's tracing and
// metrics, so every fan-out in the pipeline is observable the same way
// regardless of which signal it targets.
func (s *Session) sessSend(ctx context.Context, signal string, values dispatch.Values) ([]any, error) {
	spanCtx, span := s.spans.StartSendSpan(ctx, signal)
	start := time.Now()
	results, err := s.dispatcher.Send(signal, values)
	s.metrics.RecordDispatcherSend(spanCtx, signal, len(results), time.Since(start))
	s.spans.EndSpanWithError(span, err)
	return results, err
}

// resolve runs the full resolution pipeline for ev. It is the sole
// implementation of the event lifecycle's nine-step protocol; every
// public entry point (Resolve and the six spawn forms) funnels through
// it.
func resolve(ev Event) (result any, err error) {
	base := ev.(baseHolder).baseOf()
	sess := ev.Session()
	name := ev.Name()

	logger := observability.EnrichLogger(sess.logger, sess.id, name)

	ctx, span := sess.spans.StartEventSpan(context.Background(), name, sess.GetTimeStamp())
	observability.LogEventStart(logger, name, sess.GetTimeStamp())
	start := time.Now()
	defer func() {
		sess.metrics.RecordEventResolution(ctx, name, time.Since(start), err)
		sess.spans.EndSpanWithError(span, err)
	}()

	// 1. Setup.
	if s, ok := ev.(Setupper); ok {
		if setupErr := s.Setup(); setupErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrSetupAborted, setupErr)
		}
	}

	// 2. Replacement search.
	raw, err := sess.sessSend(ctx, "_try_"+name, dispatch.Values{"source": ev})
	if err != nil {
		return nil, &HandlerError{Signal: "_try_" + name, Err: err}
	}
	var candidates []Replacement
	for _, r := range raw {
		rep, ok := r.(Replacement)
		if !ok {
			continue
		}
		if base.ReplacedBy().has(rep) {
			continue
		}
		candidates = append(candidates, rep)
	}

	// 3. Replacement application.
	if len(candidates) > 0 {
		var chosen Replacement
		if len(candidates) > 1 {
			chosen, err = sess.chooseReplacement(candidates)
			if err != nil {
				return nil, err
			}
		} else {
			chosen = candidates[0]
		}
		base.replacedBy.add(chosen)
		sess.metrics.RecordReplacement(ctx, name, len(candidates))
		observability.LogEventReplaced(logger, name, len(candidates), chosen.TimeStamp())
		return chosen.Replace(ev)
	}

	// 4. Check.
	if c, ok := ev.(Checker); ok {
		if err := c.Check(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCheckAborted, err)
		}
	}

	// 5. Log.
	sess.logEvent(ev)

	// 6. Pre-reactions (domain extension point; no-op by default).
	if err := sess.resolveReactions(ctx, ev, name, false); err != nil {
		return nil, err
	}

	// 7. Pre-respond.
	if _, err := sess.sessSend(ctx, "_pre_respond_"+name, dispatch.Values{"source": ev}); err != nil {
		return nil, &HandlerError{Signal: "_pre_respond_" + name, Err: err}
	}

	// 8. Payload.
	result, err = ev.Payload()
	if err != nil {
		sess.notifyFinished(ev, false)
		return nil, &PayloadError{EventType: name, Err: err}
	}

	// 9. Post-reactions & notify.
	if err := sess.resolveReactions(ctx, ev, name, true); err != nil {
		return nil, err
	}
	if _, err := sess.sessSend(ctx, name, dispatch.Values{"source": ev}); err != nil {
		return nil, &HandlerError{Signal: name, Err: err}
	}
	sess.notifyFinished(ev, true)

	return result, nil
}

// ParentOption supplies an explicit parent to Resolve or to
// CreateCondition/ConnectCondition/DisconnectCondition, nesting the
// constructed event under parent in the event tree rather than
// resolving it as a root event — the optional `parent` argument
// resolve_event/create_condition/connect_condition/disconnect_condition
// all document.
type ParentOption struct {
	parent Event
}

// WithParent builds a ParentOption carrying parent. A nil parent is the
// same as omitting the option.
func WithParent(parent Event) ParentOption { return ParentOption{parent: parent} }

// Resolve constructs an event of type T against sess and runs it
// through the full resolution pipeline. With no ParentOption it
// resolves as a root event; WithParent(p) nests it under p instead.
// It is a free function rather than a Session method because Go does
// not allow generic methods.
func Resolve[T Definition](sess *Session, source any, values Values, opts ...ParentOption) (any, error) {
	var parent Event
	for _, opt := range opts {
		parent = opt.parent
	}
	ev := construct[T](childParams{session: sess, source: source, parent: parent, values: values})
	return resolve(any(ev).(Event))
}

// DependTree resolves a child event of type T that is a child of self in
// the event tree, inherits self's source, and carries forward self's
// replaced-by lineage — a replacement that already fired on self will
// not re-fire on this child. Values are self's values merged with
// overrides (overrides win on collision).
func DependTree[T Definition](self Event, overrides Values) (any, error) {
	ev := construct[T](childParams{
		session:    self.Session(),
		source:     self.Source(),
		parent:     self,
		replacedBy: self.ReplacedBy().clone(),
		values:     self.Values().merge(overrides),
	})
	return resolve(any(ev).(Event))
}

// DependBranch is DependTree but the merged values come only from
// overrides, not from self's values.
func DependBranch[T Definition](self Event, overrides Values) (any, error) {
	ev := construct[T](childParams{
		session:    self.Session(),
		source:     self.Source(),
		parent:     self,
		replacedBy: self.ReplacedBy().clone(),
		values:     overrides,
	})
	return resolve(any(ev).(Event))
}

// Replace resolves a child event of type T parented to self's parent —
// not self — carrying forward self's replaced-by lineage and merging
// self's values with overrides. Used from inside a Replacement's own
// Replace implementation to substitute an alternative event for the one
// it intercepted.
func Replace[T Definition](self Event, overrides Values) (any, error) {
	ev := construct[T](childParams{
		session:    self.Session(),
		source:     self.Source(),
		parent:     self.Parent(),
		replacedBy: self.ReplacedBy().clone(),
		values:     self.Values().merge(overrides),
	})
	return resolve(any(ev).(Event))
}

// ReplaceClone is Replace but constructs another instance of self's own
// concrete type rather than a caller-specified T, mirroring Python's
// `type(self)()`. Used by replacements that alter an event's values
// without changing its type, e.g. doubling a DealDamage's amount.
func ReplaceClone(self Event, overrides Values) (any, error) {
	concreteType := reflect.TypeOf(self).Elem()
	instance := reflect.New(concreteType).Interface().(Definition)

	structValue := reflect.ValueOf(instance).Elem()
	var baseField reflect.Value
	for i := 0; i < structValue.NumField(); i++ {
		if structValue.Field(i).Type() == baseType {
			baseField = structValue.Field(i)
			break
		}
	}
	if !baseField.IsValid() {
		panic(fmt.Sprintf("eventtree: %T does not embed eventtree.Base", instance))
	}

	b := Base{
		session:    self.Session(),
		source:     self.Source(),
		parent:     self.Parent(),
		values:     self.Values().merge(overrides),
		replacedBy: self.ReplacedBy().clone(),
		timeStamp:  -1,
	}
	baseField.Set(reflect.ValueOf(b))
	instance.(coreBinder).bindCore(instance)

	if self.Parent() != nil {
		self.Parent().(interface{ addChild(Event) }).addChild(instance.(Event))
	}

	return resolve(instance.(Event))
}

// SpawnTree resolves a child event of type T that is a child of self in
// the event tree, inherits self's source, but starts a fresh, empty
// replaced-by lineage — it represents a logically new action, so
// replacements may again apply. Values are self's values merged with
// overrides. Any resolution failure (setup/check abort, payload error,
// handler error) is swallowed and reported as a nil result, per the
// spawn form's failure-tolerant contract.
func SpawnTree[T Definition](self Event, overrides Values) any {
	ev := construct[T](childParams{
		session: self.Session(),
		source:  self.Source(),
		parent:  self,
		values:  self.Values().merge(overrides),
	})
	result, err := resolve(any(ev).(Event))
	if err != nil {
		return nil
	}
	return result
}

// Branch is SpawnTree but the merged values come only from overrides,
// not from self's values.
func Branch[T Definition](self Event, overrides Values) any {
	ev := construct[T](childParams{
		session: self.Session(),
		source:  self.Source(),
		parent:  self,
		values:  overrides,
	})
	result, err := resolve(any(ev).(Event))
	if err != nil {
		return nil
	}
	return result
}
