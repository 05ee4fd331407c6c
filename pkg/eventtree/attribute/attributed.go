package attribute

import "github.com/guldfisk/eventtree/pkg/eventtree/dispatch"

// Attributed is embedded by domain objects that expose protected
// attributes, so they don't each have to thread a Dispatcher through
// their own constructors by hand.
type Attributed struct {
	Dispatcher dispatch.Dispatcher
}

// PA constructs a Protected attribute named name with base value
// initial, owned by owner (typically the embedding domain object
// itself), reading modifiers from a.Dispatcher.
func (a Attributed) PA(owner any, name string, initial any) *Protected {
	return New(a.Dispatcher, owner, name, initial)
}
