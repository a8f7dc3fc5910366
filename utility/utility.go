// Package utility implements single-step utility AI: every action scores
// the current blackboard and the best-scoring one is applied.
package utility

import "math"

// Action scores a blackboard and applies itself when chosen.
type Action[T any] interface {
	Score(bb T) float64
	Apply(bb *T)
}

// Evaluator picks and applies the highest-scoring action.
type Evaluator[T any] struct {
	actions []Action[T]
}

// NewEvaluator builds an Evaluator over the given actions.
func NewEvaluator[T any](actions ...Action[T]) *Evaluator[T] {
	return &Evaluator[T]{actions: actions}
}

// Run applies the best-scoring action to the blackboard. Ties keep the
// earliest action. An empty evaluator is a no-op.
func (e *Evaluator[T]) Run(bb *T) {
	if len(e.actions) == 0 {
		return
	}
	best := e.actions[0]
	bestScore := math.Inf(-1)
	for _, a := range e.actions {
		if score := a.Score(*bb); score > bestScore {
			bestScore = score
			best = a
		}
	}
	best.Apply(bb)
}
