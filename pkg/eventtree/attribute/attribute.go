// Package attribute implements read-through protected attributes: a
// base value whose reads fold in ordered modifiers discovered via a
// Dispatcher at read time. It depends only on dispatch.Dispatcher, not
// on the eventtree package, so it can be used standalone from any
// signal-keyed broadcast.
package attribute

import "github.com/guldfisk/eventtree/pkg/eventtree/dispatch"

// Modifier is the minimal contract a protected attribute needs from a
// connected StaticAttributeModification condition.
type Modifier interface {
	// TimeStamp orders modifiers for composition; ascending order.
	TimeStamp() int

	// Resolve folds this modifier into the running value for owner.
	Resolve(owner any, value any) (any, error)
}

// Protected is a read-through attribute: on Get, it sends "_aa_" + name
// on the given Dispatcher, collects every responding Modifier, sorts
// them by TimeStamp ascending, and left-folds Resolve over the base
// value.
type Protected struct {
	dispatcher dispatch.Dispatcher
	owner      any
	name       string
	value      any
}

// New constructs a Protected attribute named name, owned by owner, with
// base value initial, reading modifiers from d.
func New(d dispatch.Dispatcher, owner any, name string, initial any) *Protected {
	return &Protected{dispatcher: d, owner: owner, name: name, value: initial}
}

// Get folds every connected modifier into the base value, in ascending
// TimeStamp order, and returns the result. The base value itself is
// never mutated by a read.
func (p *Protected) Get() (any, error) {
	raw, err := p.dispatcher.Send("_aa_"+p.name, dispatch.Values{"owner": p.owner, "value": p.value})
	if err != nil {
		return nil, err
	}

	modifiers := make([]Modifier, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(Modifier); ok {
			modifiers = append(modifiers, m)
		}
	}
	sortByTimeStamp(modifiers)

	current := p.value
	for _, m := range modifiers {
		current, err = m.Resolve(p.owner, current)
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

// Set replaces the base value. Readers already holding a result from a
// prior Get are unaffected; the new value is visible on the next Get.
func (p *Protected) Set(value any) { p.value = value }

// sortByTimeStamp performs a stable ascending sort by TimeStamp — a
// small insertion sort is enough here since modifier counts per
// attribute are expected to stay tiny.
func sortByTimeStamp(modifiers []Modifier) {
	for i := 1; i < len(modifiers); i++ {
		for j := i; j > 0 && modifiers[j].TimeStamp() < modifiers[j-1].TimeStamp(); j-- {
			modifiers[j], modifiers[j-1] = modifiers[j-1], modifiers[j]
		}
	}
}
