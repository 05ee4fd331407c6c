package eventtree

// The built-in events below run through the ordinary resolution pipeline
// like any domain event, so connecting, disconnecting, choosing a
// replacement, and enqueuing a trigger are all themselves observable and
// replaceable. Their Values keys are documented here rather than exposed
// as exported struct fields, consistent with every other event type's
// Values-map design.

// connectConditionEvent is the built-in ConnectCondition event. Values:
// "condition" holds the Condition being connected.
type connectConditionEvent struct {
	Base
}

func (e *connectConditionEvent) Name() string { return "ConnectCondition" }

func (e *connectConditionEvent) Payload() (any, error) {
	cond := e.Values()["condition"].(Condition)
	if err := cond.Connect(); err != nil {
		return nil, err
	}
	return cond, nil
}

// disconnectConditionEvent is the built-in DisconnectCondition event.
// Values: "condition" holds the Condition being disconnected.
type disconnectConditionEvent struct {
	Base
}

func (e *disconnectConditionEvent) Name() string { return "DisconnectCondition" }

func (e *disconnectConditionEvent) Payload() (any, error) {
	cond := e.Values()["condition"].(Condition)
	if err := cond.Disconnect(); err != nil {
		return nil, err
	}
	return cond, nil
}

// chooseReplacementEvent is the built-in ChooseReplacement event. Values:
// "options" holds the []Replacement candidates to choose among. Its
// Payload delegates to the owning Session's configured Chooser (default
// DefaultChooser), so a domain Replacement is free to intercept the
// choice itself via the ordinary "_try_ChooseReplacement" signal.
type chooseReplacementEvent struct {
	Base
}

func (e *chooseReplacementEvent) Name() string { return "ChooseReplacement" }

func (e *chooseReplacementEvent) Payload() (any, error) {
	options := e.Values()["options"].([]Replacement)
	return e.Session().chooser(options)
}

// triggeredEvent is the built-in Triggered event. Values: "trigger"
// holds the firing TriggerHandle, "circumstance" holds the values bag it
// fired under. Its Payload enqueues the pack for later batch resolution
// via Session.ResolveTriggers.
type triggeredEvent struct {
	Base
}

func (e *triggeredEvent) Name() string { return "Triggered" }

func (e *triggeredEvent) Payload() (any, error) {
	trigger := e.Values()["trigger"].(TriggerHandle)
	circumstance, _ := e.Values()["circumstance"].(Values)
	e.Session().enqueueTrigger(trigger, circumstance)
	return nil, nil
}

// Triggered resolves the built-in Triggered event on behalf of a firing
// Trigger condition. Condition implementations in the condition
// subpackage call this from their load handler rather than constructing
// triggeredEvent directly, since the type is unexported.
func Triggered(sess *Session, trigger TriggerHandle, circumstance Values) (any, error) {
	return Resolve[*triggeredEvent](sess, nil, Values{"trigger": trigger, "circumstance": circumstance})
}
