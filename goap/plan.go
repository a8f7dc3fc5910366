package goap

// Plan is an ordered sequence of actions produced by NewPlan. It owns the
// action catalog it was planned against and replays actions against a live
// blackboard one step at a time. Copying a Plan value before running it
// yields an independent replay cursor over the same steps.
//
// The zero value is a failed (not found) plan.
type Plan[T State[T]] struct {
	actions []Action[T]
	steps   []int // catalog indices in execution order
	found   bool
}

// Found reports whether planning succeeded. A successful plan stays Found
// even after it has been fully executed, which distinguishes it from a
// failed search; both have Size() == 0 once drained.
func (p *Plan[T]) Found() bool {
	return p.found
}

// Size returns the number of actions remaining to run.
func (p *Plan[T]) Size() int {
	return len(p.steps)
}

// IsActive reports whether there are actions left to run.
func (p *Plan[T]) IsActive() bool {
	return len(p.steps) > 0
}

// RunNext dequeues the next action and applies its real effects to the
// caller's blackboard. It is a no-op on an empty or failed plan.
func (p *Plan[T]) RunNext(bb *T) {
	if len(p.steps) == 0 {
		return
	}
	idx := p.steps[0]
	p.steps = p.steps[1:]
	p.actions[idx].ApplyEffects(bb, false)
}
