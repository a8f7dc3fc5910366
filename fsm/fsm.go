// Package fsm provides finite state machine containers for NPC behavior:
// a single-state machine with pause/resume and a stack machine for layered
// states (e.g. "combat" pushed over "patrol").
package fsm

// State is one behavioral state of a machine, parameterized over the
// agent's blackboard type.
type State[T any] interface {
	Enter(bb *T)
	Exit(bb *T)
	Pause(bb *T)
	Resume(bb *T)
	Update(bb *T)
}

// SimpleMachine holds at most one active state.
// The zero value is ready to use.
type SimpleMachine[T any] struct {
	current State[T]
	paused  bool
}

// SetState exits the current state (if any) and enters the new one.
// A nil state clears the machine. If the machine is paused the new state
// is paused immediately after entering.
func (m *SimpleMachine[T]) SetState(s State[T], bb *T) {
	if m.current != nil {
		m.current.Exit(bb)
	}
	m.current = s
	if m.current != nil {
		m.current.Enter(bb)
		if m.paused {
			m.current.Pause(bb)
		}
	}
}

// Pause suspends the machine; Update becomes a no-op until Resume.
func (m *SimpleMachine[T]) Pause(bb *T) {
	m.paused = true
	if m.current != nil {
		m.current.Pause(bb)
	}
}

// Resume lifts a pause.
func (m *SimpleMachine[T]) Resume(bb *T) {
	m.paused = false
	if m.current != nil {
		m.current.Resume(bb)
	}
}

// Update ticks the current state unless the machine is paused or empty.
func (m *SimpleMachine[T]) Update(bb *T) {
	if m.paused || m.current == nil {
		return
	}
	m.current.Update(bb)
}

// StackMachine keeps a stack of states; only the top one updates.
// Pushing pauses the previous top, popping exits the top and resumes the
// state underneath. The zero value is ready to use.
type StackMachine[T any] struct {
	stack []State[T]
}

// PushState pauses the current top (if any) and enters the new state.
// Pushing nil is a no-op.
func (m *StackMachine[T]) PushState(s State[T], bb *T) {
	if len(m.stack) > 0 {
		m.stack[len(m.stack)-1].Pause(bb)
	}
	if s != nil {
		s.Enter(bb)
		m.stack = append(m.stack, s)
	}
}

// PopState exits the top state and resumes the one below it.
func (m *StackMachine[T]) PopState(bb *T) {
	if len(m.stack) > 0 {
		m.stack[len(m.stack)-1].Exit(bb)
		m.stack = m.stack[:len(m.stack)-1]
	}
	if len(m.stack) > 0 {
		m.stack[len(m.stack)-1].Resume(bb)
	}
}

// Depth returns the number of stacked states.
func (m *StackMachine[T]) Depth() int {
	return len(m.stack)
}

// Update ticks the top state, if any.
func (m *StackMachine[T]) Update(bb *T) {
	if len(m.stack) > 0 {
		m.stack[len(m.stack)-1].Update(bb)
	}
}
