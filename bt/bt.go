// Package bt implements behavior trees over a game-defined blackboard type.
package bt

// Status is the result of a behavior tree node tick.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusRunning
)

// Node is a single node in a behavior tree.
type Node[T any] interface {
	Tick(bb *T) Status
}

// ---- Composite nodes ----

// Selector succeeds as soon as one child succeeds (logical OR).
type Selector[T any] struct {
	Children []Node[T]
}

func (s *Selector[T]) Tick(bb *T) Status {
	for _, c := range s.Children {
		switch c.Tick(bb) {
		case StatusSuccess:
			return StatusSuccess
		case StatusRunning:
			return StatusRunning
		}
	}
	return StatusFailure
}

// Sequence succeeds only when all children succeed (logical AND).
type Sequence[T any] struct {
	Children []Node[T]
}

func (s *Sequence[T]) Tick(bb *T) Status {
	for _, c := range s.Children {
		switch c.Tick(bb) {
		case StatusFailure:
			return StatusFailure
		case StatusRunning:
			return StatusRunning
		}
	}
	return StatusSuccess
}

// ---- Leaf nodes ----

// ConditionNode evaluates a boolean predicate.
type ConditionNode[T any] struct {
	Fn func(*T) bool
}

func (cn *ConditionNode[T]) Tick(bb *T) Status {
	if cn.Fn(bb) {
		return StatusSuccess
	}
	return StatusFailure
}

// ActionNode executes an action and returns its status.
type ActionNode[T any] struct {
	Fn func(*T) Status
}

func (an *ActionNode[T]) Tick(bb *T) Status {
	return an.Fn(bb)
}

// ---- Decorator nodes ----

// Inverter negates the result of its child. Running passes through.
type Inverter[T any] struct {
	Child Node[T]
}

func (i *Inverter[T]) Tick(bb *T) Status {
	switch i.Child.Tick(bb) {
	case StatusSuccess:
		return StatusFailure
	case StatusFailure:
		return StatusSuccess
	default:
		return StatusRunning
	}
}

// ---- Tree root ----

// Tree wraps the root node.
type Tree[T any] struct {
	Root Node[T]
}

// Tick runs one frame of the behavior tree.
func (t *Tree[T]) Tick(bb *T) Status {
	if t.Root == nil {
		return StatusFailure
	}
	return t.Root.Tick(bb)
}
