/*
Package eventtree resolves rule-driven events through an interceptable
pipeline, modeling domains — card games, simulation rules, policy
engines — where an atomic action can be replaced, reacted to, and can
spawn further dependent actions.

# Overview

A domain declares event types by embedding eventtree.Base and
implementing Payload (the event's effect). A Session resolves events one
at a time, each passing through a fixed pipeline:

	setup -> replacement search -> replacement application -> check ->
	log -> pre-reactions -> pre-respond -> payload -> post-reactions -> notify

Conditions registered against the Session's Dispatcher can intercept any
step: a Replacement substitutes an alternative event before the original
ever logs; a Trigger queues a deferred reaction; a
StaticAttributeModification folds into a protected attribute's read.
The condition subpackage implements the full taxonomy.

# Basic Usage

	type DealDamage struct {
	    eventtree.Base
	}

	func (e *DealDamage) Name() string { return "DealDamage" }
	func (e *DealDamage) Amount() int  { return e.Values()["amount"].(int) }

	func (e *DealDamage) Payload() (any, error) {
	    fmt.Printf("dealt %d damage\n", e.Amount())
	    return e.Amount(), nil
	}

	func main() {
	    sess := eventtree.NewSession()
	    result, err := eventtree.Resolve[*DealDamage](sess, nil, eventtree.Values{"amount": 5})
	    if err != nil {
	        log.Fatal(err)
	    }
	}

# Spawning dependent events

An event's Payload, or a condition's reaction, may spawn further events
against the same Session. Six spawn forms exist, chosen by whether the
spawned event should share the spawning event's replaced-by lineage
(depend_tree, depend_branch, replace, replace_clone) or start a fresh
one (spawn_tree, branch) — see DependTree, DependBranch, Replace,
ReplaceClone, SpawnTree, and Branch.

# Conditions

Conditions are persistent observers that connect to the Session's
Dispatcher under a signal derived from their trigger name. The full
taxonomy — Replacement, Reaction, PostReaction, Trigger, DelayedTrigger,
Response, PreResponse, StaticAttributeModification, and the Continuous
mix-in — lives in the condition subpackage, which imports this one.

# Attribute interception

Domain objects expose protected attributes whose reads fold in ordered
modifiers discovered via the Dispatcher at read time. See the attribute
subpackage.

# Concurrency

Resolution is single-threaded, cooperative, and synchronous: the
package-level Resolve function and every spawn form run to completion on the calling goroutine before returning. A
Session is not safe for concurrent use from multiple goroutines.

# Non-goals

This package does not provide a durable event log, rollback or undo of
applied payloads, ordering of the delayed trigger queue beyond insertion
order, or thread-safe concurrent resolution. These are documented
exclusions, not omissions.
*/
package eventtree
