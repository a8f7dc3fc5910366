// Package goap implements Goal Oriented Action Planning: a forward,
// cost-minimizing search over a game-defined blackboard type that produces
// an ordered, replayable sequence of actions leading from an initial state
// to a goal state.
//
// The blackboard is any value type satisfying State: it must be comparable
// for equality and hashable, with the two agreeing. Planning copies the
// blackboard at every expansion edge and never mutates the caller's value.
//
// Typical use:
//
//	p := goap.NewPlan(actions, current, goal, 0)
//	for p.IsActive() {
//		p.RunNext(&current)
//	}
package goap

// State is the contract a blackboard type must satisfy for planning.
// Hash must be consistent with Equal: states that compare equal must hash
// to the same value. Collisions are fine; the planner confirms candidates
// with Equal before treating two states as the same.
//
// Equality (and therefore Hash) should cover only decision-relevant fields.
// Bookkeeping fields a game carries on the blackboard (logs, counters fed
// by real execution) must be excluded, and actions must not write them
// under dry-run, so that search-produced states compare equal to states a
// real run would produce.
type State[T any] interface {
	Equal(other T) bool
	Hash() uint64
}

// Action is a single capability an agent can plan with.
//
// Implementations must be stateless or reentrant: none of the three methods
// may mutate anything outside the blackboard passed to ApplyEffects. Cost
// must be non-negative; negative costs break the best-first ordering and
// are not detected at runtime.
type Action[T State[T]] interface {
	// Cost returns the price of performing the action from the given state.
	Cost(bb T) float64

	// CheckPreconditions reports whether the action is admissible in the
	// given state. Inadmissible actions are skipped during expansion.
	CheckPreconditions(bb T) bool

	// ApplyEffects mutates the blackboard with the action's outcome.
	// Under dryRun the action is being simulated by the planner and must
	// only touch decision-relevant fields (those covered by Equal/Hash).
	ApplyEffects(bb *T, dryRun bool)
}
