package goap

import "container/heap"

// searchNode is one node of the implicit search graph. Nodes live in a
// flat arena; parent is an arena index (-1 for the root), so the winning
// path can be walked back without per-node allocation or shared ownership.
type searchNode[T any] struct {
	state  T
	cost   float64
	action int // catalog index of the action that produced this node, -1 for the root
	parent int // arena index, -1 for the root
}

// openItem is an open-set entry: an arena index keyed by accumulated cost.
// seq is the insertion counter used as a tie-break so equal-cost nodes pop
// in the order they were enqueued, which keeps expansion deterministic.
type openItem struct {
	node int
	cost float64
	seq  int
}

type openHeap []openItem

func (h openHeap) Len() int { return len(h) }

func (h openHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].seq < h[j].seq
}

func (h openHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *openHeap) Push(x any) { *h = append(*h, x.(openItem)) }

func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// NewPlan searches for the cheapest action sequence that transforms initial
// into goal and returns it as a Plan bound to the given catalog.
//
// The search is uniform-cost best-first: an open min-heap ordered by
// accumulated cost, and a closed set of already-expanded states keyed by
// the blackboard's Hash and confirmed with Equal. Actions are tried in
// catalog order; an action's cost is evaluated on the state it is taken
// from, and its effects are applied in dry-run mode to a copy.
//
// maxIterations caps the number of node expansions; 0 means unbounded.
// If the goal is unreachable within the budget the returned plan reports
// Found() == false. A goal equal to initial yields an empty, successful
// plan without expanding anything.
func NewPlan[T State[T]](actions []Action[T], initial, goal T, maxIterations int) Plan[T] {
	arena := []searchNode[T]{{state: initial, cost: 0, action: -1, parent: -1}}

	open := make(openHeap, 0, 16)
	heap.Push(&open, openItem{node: 0, cost: 0, seq: 0})
	seq := 0

	// Closed set: hash bucket -> arena indices of expanded states.
	closed := make(map[uint64][]int)
	inClosed := func(s T) bool {
		for _, idx := range closed[s.Hash()] {
			if arena[idx].state.Equal(s) {
				return true
			}
		}
		return false
	}

	for iter := 0; open.Len() > 0 && (maxIterations == 0 || iter < maxIterations); iter++ {
		cur := heap.Pop(&open).(openItem).node
		// Copy out: expanding below appends to the arena and may move it.
		curState := arena[cur].state
		curCost := arena[cur].cost

		if curState.Equal(goal) {
			steps := make([]int, 0, 8)
			for n := cur; arena[n].parent >= 0; n = arena[n].parent {
				steps = append(steps, arena[n].action)
			}
			for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
				steps[i], steps[j] = steps[j], steps[i]
			}
			return Plan[T]{actions: actions, steps: steps, found: true}
		}

		// An equal state may sit in the open set at several costs; the
		// cheapest copy was expanded first, so later pops are skipped here.
		if inClosed(curState) {
			continue
		}
		closed[curState.Hash()] = append(closed[curState.Hash()], cur)

		for ai, act := range actions {
			if !act.CheckPreconditions(curState) {
				continue
			}
			next := curState
			act.ApplyEffects(&next, true)
			if inClosed(next) {
				continue
			}
			arena = append(arena, searchNode[T]{
				state:  next,
				cost:   curCost + act.Cost(curState),
				action: ai,
				parent: cur,
			})
			seq++
			heap.Push(&open, openItem{node: len(arena) - 1, cost: arena[len(arena)-1].cost, seq: seq})
		}
	}

	return Plan[T]{}
}
